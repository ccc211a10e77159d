package model

type indexerImplementation struct {
	groups       uint64
	laboratories uint64
	slots        uint64
}

func (indexer *indexerImplementation) Index(group, laboratory, slot uint64) uint64 {
	return group + indexer.groups*laboratory + indexer.groups*indexer.laboratories*slot + 1
}

func (indexer *indexerImplementation) Attributes(index uint64) (group, laboratory, slot uint64) {
	index = index - 1
	group = index % indexer.groups
	index = index / indexer.groups

	laboratory = index % indexer.laboratories
	index = index / indexer.laboratories

	slot = index % indexer.slots

	return group, laboratory, slot
}
