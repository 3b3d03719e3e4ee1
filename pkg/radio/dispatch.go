package radio

import (
	"context"

	"github.com/golang/glog"
)

// Handler inspects an inbound message and claims it or passes.
type Handler interface {
	HandleMessage(ctx context.Context, msg *Message) (handled bool, err error)
}

// HandlerFunc is the func form of Handler.
type HandlerFunc func(context.Context, *Message) (bool, error)

// HandleMessage implements Handler.
func (f HandlerFunc) HandleMessage(ctx context.Context, msg *Message) (bool, error) {
	return f(ctx, msg)
}

type namedHandler struct {
	name    string
	handler Handler
}

// Dispatcher routes a message through an ordered list of handlers
// until one claims it.
type Dispatcher struct {
	handlers []namedHandler
}

// Register appends a handler.
func (d *Dispatcher) Register(name string, h Handler) *Dispatcher {
	d.handlers = append(d.handlers, namedHandler{name: name, handler: h})
	return d
}

// Names lists handlers in routing order.
func (d *Dispatcher) Names() []string {
	names := make([]string, len(d.handlers))
	for n, h := range d.handlers {
		names[n] = h.name
	}
	return names
}

// HandleMessage implements Handler. A failing handler is logged and
// routing continues with the next one.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg *Message) (bool, error) {
	for _, h := range d.handlers {
		handled, err := h.handler.HandleMessage(ctx, msg)
		if err != nil {
			glog.Warningf("radio: handler %s: %s: %v", h.name, msg, err)
		}
		if handled {
			glog.V(4).Infof("radio: %s handled by %s", msg, h.name)
			return true, nil
		}
	}
	glog.V(2).Infof("radio: unhandled %s", msg)
	return false, nil
}
