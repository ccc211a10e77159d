package model

// indexer gives a unique index to a combination of placement variable's attributes and vice versa
type indexer interface {
	// Returns a unique index (starting at 1) to a combination of placement variable's attributes
	Index(group, laboratory, slot uint64) uint64
	// Returns a combination of placement variable's attributes from a unique index
	Attributes(index uint64) (group, laboratory, slot uint64)
}

func newIndexer(groups, laboratories, slots uint64) indexer {
	return &indexerImplementation{
		groups:       groups,
		laboratories: laboratories,
		slots:        slots,
	}
}
