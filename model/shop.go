package model //import "github.com/hondana-dev/hondana/model"

// UnspecifiedShopID is the sentinel shop for books registered without a
// purchase channel. Seeded by the schema.
const UnspecifiedShopID = "00000000-0000-0000-0000-000000000002"

// Shop identifies the purchase/source channel of a book.
type Shop struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedTs string `json:"created_ts"`
	UpdatedTs string `json:"updated_ts"`
}

type FindShop struct {
	ID   *string
	Name *string
}
