package matcha

import (
	"google.golang.org/grpc"

	"github.com/oggyb/matcha/internal/app"
	pb "github.com/oggyb/matcha/internal/proto/matcha"
)

// Registrar ties the Matcha service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Matcha service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Matcha service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	service := NewMatchaService(r.appCtx)
	pb.RegisterMatchaServiceServer(s, service)
}
