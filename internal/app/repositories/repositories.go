package repositories

import (
	"github.com/yigit/unitrack/internal/pkg/blobstore"
)

// Repositories holds all the repository instances
type Repositories struct {
	SlotRepository *SlotRepository
}

// NewRepositories initializes all repositories
func NewRepositories(store blobstore.Store) *Repositories {
	return &Repositories{
		SlotRepository: NewSlotRepository(store),
	}
}
