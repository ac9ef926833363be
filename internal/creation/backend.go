package creation

import "context"

//go:generate mockgen -source=backend.go -destination=mock_backend.go -package=creation

// Backend sends one creation turn to the remote service and returns its reply
// as-is. Implementations must not translate transport failures into replies.
type Backend interface {
	CreateTest(ctx context.Context, req *Request) (*Response, error)
}
