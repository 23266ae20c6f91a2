package generator

import (
	"github.com/toyz/ctrlgen/internal/models"
	"github.com/toyz/ctrlgen/internal/parser"
)

// CodeGenerator turns analyzed services into generated files
type CodeGenerator interface {
	GeneratePackage(pkg *parser.Package, services []*models.ServiceMetadata) ([]*models.GeneratedFile, error)
}

// ServiceGenerator renders the parts generated for one service
type ServiceGenerator interface {
	GenerateEnum(svc *models.ServiceMetadata) (string, error)
	GenerateDispatch(svc *models.ServiceMetadata) (string, error)
	GenerateProxies(svc *models.ServiceMetadata) (string, error)
}

var (
	_ CodeGenerator    = (*Generator)(nil)
	_ ServiceGenerator = (*Generator)(nil)
)
