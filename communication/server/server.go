package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"snipehunt/communication"
	"snipehunt/game"
	"snipehunt/searcher"
	"snipehunt/worker"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const closeTimeout = time.Second

// ServerCommunicator gives every websocket connection its own worker and
// relays requests and snapshots between the two.
type ServerCommunicator struct {
	config   worker.Config
	options  []searcher.Option
	upgrader websocket.Upgrader
}

func NewServerCommunicator(config worker.Config, options ...searcher.Option) *ServerCommunicator {
	return &ServerCommunicator{
		config:  config,
		options: options,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (sc *ServerCommunicator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := sc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	id := uuid.NewString()
	log.Info().Str("conn", id).Str("remote", r.RemoteAddr).Msg("connection opened")
	if err := sc.serve(r.Context(), id, conn); err != nil {
		log.Warn().Err(err).Str("conn", id).Msg("connection failed")
		return
	}
	log.Info().Str("conn", id).Msg("connection closed")
}

// serve runs the worker, a reader and a writer until the peer leaves or ctx
// is done. Only the writer writes data frames to conn.
func (sc *ServerCommunicator) serve(parent context.Context, id string, conn *websocket.Conn) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	w := worker.New(sc.config, sc.options...)
	replies := make(chan communication.Message, 8)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return w.Run(ctx) })
	g.Go(func() error {
		defer cancel()
		return sc.read(ctx, id, conn, w, replies)
	})
	g.Go(func() error { return sc.write(ctx, conn, w, replies) })

	return g.Wait()
}

func (sc *ServerCommunicator) read(ctx context.Context, id string, conn *websocket.Conn, w *worker.Worker, replies chan<- communication.Message) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var msg communication.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Str("conn", id).Msg("malformed message")
			if !reply(ctx, replies, failure(err)) {
				return nil
			}
			continue
		}
		log.Debug().Str("conn", id).Str("type", msg.Type).Msg("request")

		response, ok := sc.handle(ctx, msg, w)
		if !ok {
			continue
		}
		if !reply(ctx, replies, response) {
			return nil
		}
	}
}

// handle serves one request. It returns false when the request has no reply.
func (sc *ServerCommunicator) handle(ctx context.Context, msg communication.Message, w *worker.Worker) (communication.Message, bool) {
	switch msg.Type {
	case communication.TypeUpdate:
		var update communication.Update
		if err := msg.Decode(&update); err != nil {
			return failure(err), true
		}
		state, ok := game.Deserialize(update.State)
		if !ok {
			return failure(errors.New("invalid state")), true
		}
		if err := w.Update(ctx, state, communication.ThinkingTime(update.ThinkingTimeMs)); err != nil {
			return failure(err), true
		}
		return communication.Message{}, false

	case communication.TypePause:
		var paused communication.Paused
		if checkpoint, ok := w.Pause(ctx); ok {
			data, err := checkpoint.Encode()
			if err != nil {
				return failure(err), true
			}
			paused.Checkpoint = data
		}
		return message(communication.TypePaused, paused), true

	case communication.TypeResume:
		var resume communication.Resume
		if err := msg.Decode(&resume); err != nil {
			return failure(err), true
		}
		checkpoint, err := searcher.DecodeCheckpoint(resume.Checkpoint)
		if err != nil {
			return failure(err), true
		}
		if err := w.Resume(ctx, checkpoint); err != nil {
			return failure(err), true
		}
		return communication.Message{}, false
	}
	return failure(errors.New("unknown message type " + msg.Type)), true
}

func (sc *ServerCommunicator) write(ctx context.Context, conn *websocket.Conn, w *worker.Worker, replies <-chan communication.Message) error {
	for {
		var msg communication.Message
		select {
		case <-ctx.Done():
			return shutdown(conn)
		case msg = <-replies:
		case n := <-w.Notifications():
			msg = message(communication.TypeSnapshot, communication.Snapshot{Snapshot: n.Snapshot})
		}

		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// shutdown says goodbye and closes conn, which also unblocks the reader.
func shutdown(conn *websocket.Conn) error {
	var result *multierror.Error
	frame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(closeTimeout))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) && !errors.Is(err, net.ErrClosed) {
		result = multierror.Append(result, err)
	}
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func reply(ctx context.Context, replies chan<- communication.Message, msg communication.Message) bool {
	select {
	case replies <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func message(kind string, data any) communication.Message {
	msg, err := communication.NewMessage(kind, data)
	if err != nil {
		return failure(err)
	}
	return msg
}

func failure(err error) communication.Message {
	msg, _ := communication.NewMessage(communication.TypeError, communication.Error{Message: err.Error()})
	return msg
}
