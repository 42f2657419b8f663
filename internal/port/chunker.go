package port

import "ragagent/internal/domain"

type Chunker interface {
	CreateChunks(text, source string, page int) ([]domain.Chunk, error)
}
