package switching

import (
	"context"
	"io"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
)

// Codec turns built messages into switch frames and switch frames into responses
type Codec interface {
	// Pack returns the complete frame, length prefix included
	Pack(message entity.Message) ([]byte, error)
	// Unpack reads exactly one framed response from r
	Unpack(r io.Reader) (entity.AtmResponse, error)
}

// Transport delivers one frame to the switch and decodes its answer
type Transport interface {
	Exchange(ctx context.Context, frame []byte, decode func(io.Reader) (entity.AtmResponse, error)) (entity.AtmResponse, error)
}
