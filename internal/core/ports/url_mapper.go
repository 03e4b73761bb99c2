package ports

// URLMapper translates between file system paths and public URLs.
//
//go:generate go run go.uber.org/mock/mockgen -source=url_mapper.go -destination=mocks/mock_url_mapper.go -package=mocks
type URLMapper interface {
	// ToURL returns the public URL of the file at path.
	ToURL(path string) (string, error)

	// ToPath returns the file system path served at url.
	ToPath(url string) (string, error)
}
