package storage

// Options carries backend construction parameters. Path is the database file
// for the sqlite kind and the data directory for the json and csv kinds.
type Options struct {
	Path string
}

// New selects and constructs a backend from its kind string.
func New(kind string, opts Options) (Backend, error) {
	if opts.Path == "" {
		return nil, &ConfigurationError{Kind: kind, Message: "path is required"}
	}
	switch kind {
	case "sqlite":
		return NewSQLite(opts.Path)
	case "json":
		return NewJSON(opts.Path)
	case "csv":
		return NewCSV(opts.Path)
	default:
		return nil, &ConfigurationError{Kind: kind, Message: "unknown backend kind (use 'sqlite', 'json', or 'csv')"}
	}
}
