package memory

import (
	"github.com/safework-lab/talos/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-process repository backend. It deep-copies
// aggregates on the way in and out so callers never share state.
type Memory struct {
	group    *groupRepository
	item     *itemRepository
	document *documentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		group:    newGroupRepository(),
		item:     newItemRepository(),
		document: newDocumentRepository(),
	}
}

func (m *Memory) Group() interfaces.GroupRepository {
	return m.group
}

func (m *Memory) Item() interfaces.ItemRepository {
	return m.item
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.document
}

func (m *Memory) Close() error {
	return nil
}
