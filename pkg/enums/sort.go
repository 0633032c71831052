package enums

import "fmt"

// StoreSort orders nearby-store results.
type StoreSort string

const (
	StoreSortDistance StoreSort = "distance"
	StoreSortRating   StoreSort = "rating"
)

var validStoreSorts = []StoreSort{
	StoreSortDistance,
	StoreSortRating,
}

func (s StoreSort) String() string {
	return string(s)
}

func (s StoreSort) IsValid() bool {
	for _, candidate := range validStoreSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStoreSort converts raw input into a StoreSort, defaulting to distance
// when the value is empty.
func ParseStoreSort(value string) (StoreSort, error) {
	if value == "" {
		return StoreSortDistance, nil
	}
	for _, candidate := range validStoreSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store sort %q", value)
}

// ProductSort orders product search results.
type ProductSort string

const (
	ProductSortRelevance ProductSort = "relevance"
	ProductSortPrice     ProductSort = "price"
	ProductSortDistance  ProductSort = "distance"
)

var validProductSorts = []ProductSort{
	ProductSortRelevance,
	ProductSortPrice,
	ProductSortDistance,
}

func (s ProductSort) String() string {
	return string(s)
}

func (s ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort, defaulting to
// relevance when the value is empty.
func ParseProductSort(value string) (ProductSort, error) {
	if value == "" {
		return ProductSortRelevance, nil
	}
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort %q", value)
}
