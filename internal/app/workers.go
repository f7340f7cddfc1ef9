package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/internal/service/waitingroom"
)

const callRequestQueue = "waitingroom"

// WorkerModule registers all NATS workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *slog.Logger
	NC     *nats.Conn
	Pager  waitingroom.Service
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		return
	}

	var sub *nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			sub, err = startCallRequestWorker(p.NC, p.Cfg.Nats.SubjectPrefix, p.Pager, p.Logger)
			return err
		},
		OnStop: func(ctx context.Context) error {
			if sub == nil {
				return nil
			}
			return sub.Unsubscribe()
		},
	})
}

// ---------------------------------------------------------------------------
// call_request_worker
// ---------------------------------------------------------------------------

// startCallRequestWorker lets other services (the appointment desk, a kiosk)
// call patients through the bus. Requests sent with a reply subject get a CallReply.
func startCallRequestWorker(nc *nats.Conn, prefix string, pager waitingroom.Service, logger *slog.Logger) (*nats.Subscription, error) {
	subject := waitingroom.CallRequestSubject(prefix)
	logger = logger.With("worker", "call_request", "subject", subject)

	sub, err := nc.QueueSubscribe(subject, callRequestQueue, func(msg *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		reply := handleCallRequest(ctx, pager, msg.Data)
		if reply.Error != "" {
			logger.Warn("call request rejected", "error", reply.Error)
		}

		if msg.Reply == "" {
			return
		}
		data, err := json.Marshal(reply)
		if err != nil {
			logger.Error("encode call reply", "error", err)
			return
		}
		if err := msg.Respond(data); err != nil {
			logger.Warn("call reply not delivered", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	logger.Info("call request worker started")
	return sub, nil
}

func handleCallRequest(ctx context.Context, pager waitingroom.Service, data []byte) waitingroom.CallReply {
	var req waitingroom.CallRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return waitingroom.CallReply{Error: "invalid call request: " + err.Error()}
	}

	call, err := pager.CallNext(ctx, req.Patient, req.Doctor, req.Cabinet)
	if err != nil {
		return waitingroom.CallReply{Error: err.Error()}
	}
	return waitingroom.CallReply{CallID: call.ID}
}
