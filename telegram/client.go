// Package telegram wraps the gotd MTProto client behind the small surface
// the monitor needs: start a user session, receive messages from the
// monitored groups, download photos, and send alert text.
package telegram

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gotd/td/session"
	tgclient "github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
)

// Message is the inbound message view handed to the OnMessage callback.
type Message struct {
	ID        int64
	ChatTitle string // empty when the chat carries no title
	Text      string
	HasPhoto  bool

	photo *tg.Photo
}

// Options configures the client.
type Options struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	SessionPath string
	Groups      []string // monitored group/channel titles; matched case-insensitively
	Logger      zerolog.Logger
}

// Client is a Telegram user-account client.
type Client struct {
	opts      Options
	monitored map[string]struct{}
	onMessage func(*Message)
	log       zerolog.Logger

	client *tgclient.Client
	api    *tg.Client

	peersMu sync.Mutex
	peers   map[int64]tg.InputPeerClass

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a new Telegram client.
func NewClient(opts Options) *Client {
	monitored := make(map[string]struct{}, len(opts.Groups))
	for _, g := range opts.Groups {
		monitored[strings.ToLower(strings.TrimSpace(g))] = struct{}{}
	}
	return &Client{
		opts:      opts,
		monitored: monitored,
		log:       opts.Logger.With().Str("component", "telegram").Logger(),
		peers:     make(map[int64]tg.InputPeerClass),
	}
}

// OnMessage registers the handler invoked for each message from a monitored
// group. Messages are delivered serially from the update loop.
func (c *Client) OnMessage(handler func(*Message)) {
	c.onMessage = handler
}

// Start connects, authenticates the account if necessary, and blocks
// receiving updates until the context is canceled or Stop is called.
func (c *Client) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	if dir := filepath.Dir(c.opts.SessionPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
		c.handleUpdate(e, u.Message)
		return nil
	})
	dispatcher.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
		c.handleUpdate(e, u.Message)
		return nil
	})

	c.client = tgclient.NewClient(c.opts.APIID, c.opts.APIHash, tgclient.Options{
		SessionStorage: &session.FileStorage{Path: c.opts.SessionPath},
		UpdateHandler:  dispatcher,
	})

	return c.client.Run(c.ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(
			auth.CodeOnly(c.opts.PhoneNumber, auth.CodeAuthenticatorFunc(promptCode)),
			auth.SendCodeOptions{},
		)
		if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("authenticate: %w", err)
		}

		c.api = c.client.API()

		if err := c.loadDialogs(ctx); err != nil {
			// The alert peer may still arrive via update entities.
			c.log.Warn().Err(err).Msg("failed to list dialogs at startup")
		}

		c.log.Info().
			Int("groups", len(c.monitored)).
			Msg("client started, waiting for new messages")

		<-ctx.Done()
		return ctx.Err()
	})
}

// Stop disconnects the client and releases the session.
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// promptCode reads the Telegram login code from the terminal.
func promptCode(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	fmt.Print("Enter the login code sent by Telegram: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}

// loadDialogs walks the account's dialogs once to learn peer access hashes
// and to log the visible groups, mirroring what operators see in the app.
func (c *Client) loadDialogs(ctx context.Context) error {
	dlgs, err := c.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		Limit:      100,
		OffsetPeer: &tg.InputPeerEmpty{},
	})
	if err != nil {
		return fmt.Errorf("get dialogs: %w", err)
	}

	var chats []tg.ChatClass
	switch d := dlgs.(type) {
	case *tg.MessagesDialogs:
		chats = d.Chats
	case *tg.MessagesDialogsSlice:
		chats = d.Chats
	}

	for _, chat := range chats {
		switch ch := chat.(type) {
		case *tg.Channel:
			c.rememberChannel(ch)
			c.log.Debug().Str("title", ch.Title).Int64("id", markedChannelID(ch.ID)).Msg("dialog")
		case *tg.Chat:
			c.rememberChat(ch)
			c.log.Debug().Str("title", ch.Title).Int64("id", -ch.ID).Msg("dialog")
		}
	}
	return nil
}

// handleUpdate converts one raw update into the Message view and delivers
// it to the registered handler when the source chat is monitored.
func (c *Client) handleUpdate(e tg.Entities, msg tg.MessageClass) {
	m, ok := msg.(*tg.Message)
	if !ok || m.Out {
		return
	}

	title := ""
	switch peer := m.PeerID.(type) {
	case *tg.PeerChannel:
		if ch, ok := e.Channels[peer.ChannelID]; ok {
			title = ch.Title
			c.rememberChannel(ch)
		}
	case *tg.PeerChat:
		if ch, ok := e.Chats[peer.ChatID]; ok {
			title = ch.Title
		}
	}

	if !c.isMonitored(title) {
		return
	}

	out := &Message{
		ID:        int64(m.ID),
		ChatTitle: title,
		Text:      m.Message,
	}
	if media, ok := m.Media.(*tg.MessageMediaPhoto); ok {
		if photo, ok := media.GetPhoto(); ok {
			if p, ok := photo.(*tg.Photo); ok {
				out.HasPhoto = true
				out.photo = p
			}
		}
	}

	if c.onMessage != nil {
		c.onMessage(out)
	}
}

func (c *Client) isMonitored(title string) bool {
	if len(c.monitored) == 0 {
		return true
	}
	_, ok := c.monitored[strings.ToLower(strings.TrimSpace(title))]
	return ok
}

// DownloadPhoto fetches the full-size photo attached to msg.
func (c *Client) DownloadPhoto(ctx context.Context, msg *Message) ([]byte, error) {
	if msg.photo == nil {
		return nil, errors.New("message has no photo")
	}

	loc := &tg.InputPhotoFileLocation{
		ID:            msg.photo.ID,
		AccessHash:    msg.photo.AccessHash,
		FileReference: msg.photo.FileReference,
		ThumbSize:     largestSizeType(msg.photo),
	}

	var buf bytes.Buffer
	if _, err := downloader.NewDownloader().Download(c.api, loc).Stream(ctx, &buf); err != nil {
		return nil, fmt.Errorf("download photo: %w", err)
	}
	return buf.Bytes(), nil
}

// largestSizeType picks the type of the largest available photo size.
// Sizes arrive ordered small to large.
func largestSizeType(p *tg.Photo) string {
	t := ""
	for _, s := range p.Sizes {
		switch size := s.(type) {
		case *tg.PhotoSize:
			t = size.Type
		case *tg.PhotoSizeProgressive:
			t = size.Type
		}
	}
	return t
}

// SendText sends text to chatID and returns the ID of the sent message.
// chatID accepts both raw peer IDs and the marked form used in app links
// (-100 prefix for channels).
func (c *Client) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	peer := c.peer(chatID)
	if peer == nil {
		return 0, fmt.Errorf("no access to chat %d (not in dialogs)", chatID)
	}

	upd, err := message.NewSender(c.api).To(peer).Text(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sentMessageID(upd), nil
}

// sentMessageID pulls the assigned message ID out of the send response.
func sentMessageID(u tg.UpdatesClass) int {
	switch upd := u.(type) {
	case *tg.UpdateShortSentMessage:
		return upd.ID
	case *tg.Updates:
		for _, inner := range upd.Updates {
			if mid, ok := inner.(*tg.UpdateMessageID); ok {
				return mid.ID
			}
		}
	}
	return 0
}

func (c *Client) peer(chatID int64) tg.InputPeerClass {
	c.peersMu.Lock()
	defer c.peersMu.Unlock()
	return c.peers[chatID]
}

func (c *Client) rememberChannel(ch *tg.Channel) {
	peer := &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}
	c.peersMu.Lock()
	c.peers[ch.ID] = peer
	c.peers[markedChannelID(ch.ID)] = peer
	c.peersMu.Unlock()
}

func (c *Client) rememberChat(ch *tg.Chat) {
	peer := &tg.InputPeerChat{ChatID: ch.ID}
	c.peersMu.Lock()
	c.peers[ch.ID] = peer
	c.peers[-ch.ID] = peer
	c.peersMu.Unlock()
}

// markedChannelID converts a bare channel ID to the -100-prefixed form.
func markedChannelID(id int64) int64 {
	return -(1000000000000 + id)
}
