package deps

import (
	"github.com/MrSnakeDoc/conexus/internal/domain"
	"github.com/MrSnakeDoc/conexus/internal/ident"
	"github.com/MrSnakeDoc/conexus/internal/logger"
)

type Deps struct {
	Logger       logger.Logger
	Store        domain.Store    // persistence gateway, shared by every request
	IDs          ident.Generator // bookmark id source, ident.V7 outside tests
	MaxBodyBytes int64           // cap for plain (not encoded) request bodies
}
