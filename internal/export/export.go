// Package export publishes transfers on the session D-Bus connection so
// external callers can inspect and cancel them.
package export

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/obexkit/obexkit/internal/transfer"
	"github.com/obexkit/obexkit/pkg/logging"
)

const (
	transferInterface = "org.openobex.Transfer"
	transferBasePath  = "/org/openobex"

	errNotAuthorized = "org.openobex.Error.NotAuthorized"
)

// Publisher exports transfer objects on a D-Bus connection. It implements
// transfer.Publisher.
type Publisher struct {
	conn    *dbus.Conn
	counter uint64
}

// NewPublisher wraps an established D-Bus connection.
func NewPublisher(conn *dbus.Conn) *Publisher {
	return &Publisher{conn: conn}
}

// Publish exports the transfer under the next /org/openobex/transferN path
// and returns that path as the transfer's identity.
func (p *Publisher) Publish(t *transfer.Transfer) (string, error) {
	path := dbus.ObjectPath(fmt.Sprintf("%s/transfer%d", transferBasePath, p.counter))
	p.counter++

	if err := p.conn.Export(&transferObject{t: t}, path, transferInterface); err != nil {
		return "", fmt.Errorf("failed to export transfer object: %w", err)
	}

	return string(path), nil
}

// Unpublish removes a previously exported transfer object.
func (p *Publisher) Unpublish(identity string) {
	if err := p.conn.Export(nil, dbus.ObjectPath(identity), transferInterface); err != nil {
		logging.Log.Warnf("failed to unexport %s: %v", identity, err)
	}
}

type transferObject struct {
	t *transfer.Transfer
}

// GetProperties reports the transfer's name, size and local filename.
func (o *transferObject) GetProperties() (map[string]dbus.Variant, *dbus.Error) {
	props := o.t.Properties()
	return map[string]dbus.Variant{
		"Name":     dbus.MakeVariant(props.Name),
		"Size":     dbus.MakeVariant(props.Size),
		"Filename": dbus.MakeVariant(props.Filename),
	}, nil
}

// Cancel aborts the transfer. Only the agent that requested the transfer
// may cancel it; anyone else is rejected before the abort is reached.
func (o *transferObject) Cancel(sender dbus.Sender) *dbus.Error {
	if string(sender) != o.t.Agent() {
		return dbus.NewError(errNotAuthorized, []interface{}{"Not Authorized"})
	}

	o.t.Abort()
	return nil
}
