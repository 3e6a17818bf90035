// Package wsserver is a JSON-over-WebSocket listener that exchanges
// one frame per wire call with internal/handler.Handler. Transport is
// a concern deliberately kept out of internal/scheduler and friends:
// neither has an import-time dependency on this package or on
// gorilla/websocket.
package wsserver

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/amirkhaki/conductor/internal/handler"
)

// Frame is one request frame: a wire method name plus its JSON-encoded
// request payload.
type Frame struct {
	Method  string          `json:"method"`
	Payload json.RawMessage `json:"payload"`
}

// ReplyFrame is one reply frame: the JSON-encoded reply payload for
// the request that prompted it.
type ReplyFrame struct {
	Payload json.RawMessage `json:"payload"`
}

// Server upgrades HTTP connections to WebSocket and dispatches each
// frame it receives to a Handler.
type Server struct {
	handler  *handler.Handler
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// New creates a Server dispatching through h. A nil logger falls back
// to the standard library's default logger.
func New(h *handler.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		handler: h,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and serves frames until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("wsserver: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("wsserver: read error: %v", err)
			}
			return
		}

		reply, err := s.dispatch(frame)
		if err != nil {
			s.logger.Printf("wsserver: dispatch %s: %v", frame.Method, err)
			return
		}
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Printf("wsserver: write error: %v", err)
			return
		}
	}
}

func (s *Server) dispatch(frame Frame) (ReplyFrame, error) {
	switch frame.Method {
	case "Initialize":
		return call(frame, s.handler.Initialize)
	case "Attach":
		return call(frame, s.handler.Attach)
	case "Detach":
		return call(frame, s.handler.Detach)
	case "CreateOperation":
		return call(frame, s.handler.CreateOperation)
	case "StartOperation":
		return call(frame, s.handler.StartOperation)
	case "WaitOperation":
		return call(frame, s.handler.WaitOperation)
	case "WaitOperations":
		return call(frame, s.handler.WaitOperations)
	case "CompleteOperation":
		return call(frame, s.handler.CompleteOperation)
	case "CreateResource":
		return call(frame, s.handler.CreateResource)
	case "DeleteResource":
		return call(frame, s.handler.DeleteResource)
	case "WaitResource":
		return call(frame, s.handler.WaitResource)
	case "SignalOperation":
		return call(frame, s.handler.SignalOperation)
	case "SignalOperations":
		return call(frame, s.handler.SignalOperations)
	case "ScheduleNext":
		return call(frame, s.handler.ScheduleNext)
	case "GetNextBoolean":
		return call(frame, s.handler.GetNextBoolean)
	case "GetNextInteger":
		return call(frame, s.handler.GetNextInteger)
	case "GetTrace":
		return call(frame, s.handler.GetTrace)
	default:
		return ReplyFrame{}, unknownMethodError(frame.Method)
	}
}

// call decodes frame.Payload into fn's request type, invokes fn, and
// re-encodes its reply. Generic over the request/reply struct pair so
// dispatch needs no per-method boilerplate beyond the switch above.
func call[Req, Rep any](frame Frame, fn func(Req) Rep) (ReplyFrame, error) {
	var req Req
	if err := json.Unmarshal(frame.Payload, &req); err != nil {
		return ReplyFrame{}, err
	}
	rep := fn(req)
	payload, err := json.Marshal(rep)
	if err != nil {
		return ReplyFrame{}, err
	}
	return ReplyFrame{Payload: payload}, nil
}

type unknownMethodError string

func (e unknownMethodError) Error() string {
	return "wsserver: unknown method " + string(e)
}
