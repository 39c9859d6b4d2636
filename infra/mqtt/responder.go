package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/iexsim/core/logger"
	"github.com/kilianp07/iexsim/core/monitoring"
	"github.com/kilianp07/iexsim/core/pricing"
	"github.com/kilianp07/iexsim/internal/report"
)

// Simulator runs simulation requests.
type Simulator interface {
	Simulate(ctx context.Context, req pricing.SimulationRequest) (pricing.Simulation, error)
}

// Publisher publishes payloads to a topic.
type Publisher interface {
	Publish(topic string, qos byte, payload []byte) error
}

// Response is published for every request received on the request topic.
type Response struct {
	RequestID string             `json:"request_id"`
	Result    *report.Simulation `json:"result,omitempty"`
	Error     *report.ErrorBody  `json:"error,omitempty"`
}

// Responder answers simulation requests received over MQTT.
type Responder struct {
	sim           Simulator
	pub           Publisher
	requestTopic  string
	responseTopic string
	requestQoS    byte
	responseQoS   byte
	timeout       time.Duration
	log           logger.Logger
	ctx           context.Context
}

// NewResponder creates a Responder publishing through pub.
func NewResponder(cfg Config, sim Simulator, pub Publisher, log logger.Logger) *Responder {
	cfg.SetDefaults()
	return &Responder{
		sim:           sim,
		pub:           pub,
		requestTopic:  cfg.RequestTopic,
		responseTopic: cfg.ResponseTopic,
		requestQoS:    cfg.qos("request"),
		responseQoS:   cfg.qos("response"),
		timeout:       10 * time.Second,
		log:           log,
		ctx:           context.Background(),
	}
}

// Start subscribes to the request topic on client. Requests are handled with
// a context derived from ctx.
func (r *Responder) Start(ctx context.Context, client *PahoClient) error {
	r.ctx = ctx
	if err := client.Subscribe(r.requestTopic, r.requestQoS, r.onMessage); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.requestTopic, err)
	}
	r.log.Infof("answering simulation requests on %s", r.requestTopic)
	return nil
}

func (r *Responder) onMessage(_ paho.Client, msg paho.Message) {
	defer monitoring.Recover()
	if err := r.Handle(msg.Payload()); err != nil {
		r.log.Errorf("mqtt response: %v", err)
	}
}

// Handle processes one request payload and publishes the response.
func (r *Responder) Handle(payload []byte) error {
	var req report.Request
	resp := Response{}
	if err := json.Unmarshal(payload, &req); err != nil {
		resp.RequestID = uuid.NewString()
		resp.Error = &report.ErrorBody{Code: report.CodeInvalidInput, Message: fmt.Sprintf("decode request: %v", err)}
		return r.respond(resp)
	}
	resp.RequestID = req.RequestID
	if resp.RequestID == "" {
		resp.RequestID = uuid.NewString()
	}
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()
	sim, err := r.sim.Simulate(ctx, req.SimulationRequest("mqtt"))
	if err != nil {
		body := report.FromError(err)
		resp.Error = &body
	} else {
		out := report.FromSimulation(sim)
		resp.Result = &out
	}
	return r.respond(resp)
}

func (r *Responder) respond(resp Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	r.log.Debugw("mqtt response", map[string]any{"request_id": resp.RequestID, "failed": resp.Error != nil})
	return r.pub.Publish(r.responseTopic, r.responseQoS, b)
}
