package port

type TextWalker interface {
	Walk(root string) ([]TextFile, error)
}

type TextFile struct {
	Path    string
	ModTime int64
	Size    int64
}
