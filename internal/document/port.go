package document

import "context"

type DocumentServicePort interface {
	Create(ctx context.Context, input CreateInput, content []byte, userID uint) (*DocumentVersion, error)
	Branch(ctx context.Context, lineageRootID uint, content []byte, comment *string, userID uint) (*DocumentVersion, error)
	Restore(ctx context.Context, lineageRootID uint, targetVersion int, userID uint) (*DocumentVersion, error)

	ListVersions(lineageRootID uint) ([]DocumentVersion, error)
	GetVersion(lineageRootID uint, versionNumber int) (*DocumentVersion, error)
	GetLatest(lineageRootID uint) (*DocumentVersion, error)
	List(filter ListFilter) ([]DocumentVersion, error)

	Download(ctx context.Context, lineageRootID uint, versionNumber int) ([]byte, *DocumentVersion, error)
	Preview(ctx context.Context, lineageRootID uint, versionNumber int, maxRows int) (*TabularPreview, error)

	DeleteLineage(ctx context.Context, lineageRootID uint, cascade bool, versionID uint) (*DeleteResult, error)
}

// GraphLinker annotates a freshly created lineage in the entity link
// layer. Linking is advisory; failures are logged, never fatal.
type GraphLinker interface {
	LinkDocumentLineage(lineageRootID uint, title string, projectID, experimentID *uint) error
}
