package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"snipehunt/communication"
	"snipehunt/game"
	"snipehunt/searcher"
	"snipehunt/worker"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
)

const handshakeTimeout = 10 * time.Second

var ErrClosed = errors.New("connection closed")

// ClientCommunicator talks to a remote worker over a websocket. It has the
// same surface as a local worker.
type ClientCommunicator struct {
	conn          *websocket.Conn
	writeMutex    sync.Mutex
	notifications chan worker.Notification
	paused        chan communication.Paused
	errors        chan string
	done          chan struct{}
	readErr       error
}

var _ communication.Communicator = (*ClientCommunicator)(nil)

func Dial(ctx context.Context, url string) (*ClientCommunicator, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	cc := &ClientCommunicator{
		conn:          conn,
		notifications: make(chan worker.Notification, 1),
		paused:        make(chan communication.Paused, 1),
		errors:        make(chan string, 16),
		done:          make(chan struct{}),
	}
	go cc.readLoop()
	return cc, nil
}

func (cc *ClientCommunicator) Notifications() <-chan worker.Notification {
	return cc.notifications
}

// Errors delivers the failures the server reports for earlier requests.
func (cc *ClientCommunicator) Errors() <-chan string {
	return cc.errors
}

func (cc *ClientCommunicator) Update(ctx context.Context, state *game.State, thinkingTime time.Duration) error {
	text, err := state.Serialize()
	if err != nil {
		return err
	}
	return cc.send(communication.TypeUpdate, communication.Update{
		State:          text,
		ThinkingTimeMs: thinkingTime.Milliseconds(),
	})
}

// Pause returns false when the remote worker had nothing to pause or the
// connection is gone.
func (cc *ClientCommunicator) Pause(ctx context.Context) (*searcher.Checkpoint, bool) {
	if err := cc.send(communication.TypePause, nil); err != nil {
		return nil, false
	}
	select {
	case paused := <-cc.paused:
		if len(paused.Checkpoint) == 0 {
			return nil, false
		}
		checkpoint, err := searcher.DecodeCheckpoint(paused.Checkpoint)
		if err != nil {
			log.Warn().Err(err).Msg("undecodable checkpoint")
			return nil, false
		}
		return checkpoint, true
	case <-cc.done:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}

func (cc *ClientCommunicator) Resume(ctx context.Context, checkpoint *searcher.Checkpoint) error {
	if checkpoint == nil {
		return errors.New("no checkpoint to resume")
	}
	data, err := checkpoint.Encode()
	if err != nil {
		return err
	}
	return cc.send(communication.TypeResume, communication.Resume{Checkpoint: data})
}

// Close ends the session and waits for the read loop to finish.
func (cc *ClientCommunicator) Close() error {
	var result *multierror.Error
	cc.writeMutex.Lock()
	err := cc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	cc.writeMutex.Unlock()
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		result = multierror.Append(result, err)
	}

	select {
	case <-cc.done:
	case <-time.After(handshakeTimeout):
	}
	if err := cc.conn.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if cc.readErr != nil {
		result = multierror.Append(result, cc.readErr)
	}
	return result.ErrorOrNil()
}

func (cc *ClientCommunicator) send(kind string, data any) error {
	select {
	case <-cc.done:
		return ErrClosed
	default:
	}
	msg, err := communication.NewMessage(kind, data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	cc.writeMutex.Lock()
	defer cc.writeMutex.Unlock()
	return cc.conn.WriteMessage(websocket.TextMessage, raw)
}

func (cc *ClientCommunicator) readLoop() {
	defer close(cc.done)
	for {
		_, data, err := cc.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cc.readErr = err
			}
			return
		}

		var msg communication.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("malformed message")
			continue
		}
		switch msg.Type {
		case communication.TypeSnapshot:
			var snapshot communication.Snapshot
			if err := msg.Decode(&snapshot); err != nil {
				log.Warn().Err(err).Send()
				continue
			}
			cc.notify(worker.Notification{Snapshot: snapshot.Snapshot})
		case communication.TypePaused:
			var paused communication.Paused
			if err := msg.Decode(&paused); err != nil {
				log.Warn().Err(err).Send()
			}
			select {
			case cc.paused <- paused:
			default:
				log.Debug().Msg("unexpected pause reply")
			}
		case communication.TypeError:
			var failure communication.Error
			if err := msg.Decode(&failure); err != nil {
				log.Warn().Err(err).Send()
				continue
			}
			select {
			case cc.errors <- failure.Message:
			default:
				log.Warn().Str("error", failure.Message).Msg("dropped server error")
			}
		default:
			log.Debug().Str("type", msg.Type).Msg("unknown message type")
		}
	}
}

// notify keeps only the newest snapshot, readLoop is the only sender.
func (cc *ClientCommunicator) notify(n worker.Notification) {
	select {
	case cc.notifications <- n:
	default:
		select {
		case <-cc.notifications:
		default:
		}
		cc.notifications <- n
	}
}
