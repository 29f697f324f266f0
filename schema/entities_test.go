package schema

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
)

// =========================================================================
// Test Data Structures
// =========================================================================

type OrderKind string

type Document string

type Order struct {
	_         struct{}       `db:"table:t_order"`
	Status    int            `db:"status;enumerated"`
	Kind      OrderKind      `db:"kind;enumerated:ordinal"`
	CreatedAt time.Time      `db:"createdAt"`
	Price     pgtype.Numeric `db:"price;precision:2"`
	Body      Document       `db:"body;lob"`
	Summary   Document       `db:"summary;lob;enumerated"`
	Total     int64          `db:"total"`
	Title     string         `db:"title;lob"`
	Note      string
}

type Unmarked struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

type EmptyTable struct {
	_    struct{} `db:"table:empty"`
	Name string
	Age  int `db:"-"`
}

// Auditable <- Versioned <- Article: markers on the grandparent must be found.
type Auditable struct {
	CreatedBy string `db:"created_by;length:64"`
}

type Versioned struct {
	Auditable
	Version int `db:"version"`
}

type Article struct {
	_ struct{} `db:"table:articles"`
	Versioned
	Headline string `db:"headline"`
}

type Named struct {
	Name  string `db:"parent_name"`
	Label string `db:"label"`
}

// Shadowed redeclares both fields; the declared field is consulted even when
// it carries no marker.
type Shadowed struct {
	_ struct{} `db:"table:shadowed"`
	Named
	Name  string `db:"child_name"`
	Label string
}

// Invoice exposes Total and Amount through accessors only.
type Invoice struct {
	_      struct{} `db:"table:invoices"`
	total  int
	amount float64
}

func (i *Invoice) GetTotal() int       { return i.total }
func (i *Invoice) SetTotal(v int)      { i.total = v }
func (i *Invoice) GetAmount() float64  { return i.amount }
func (i *Invoice) SetAmount(v float64) { i.amount = v }

func (i *Invoice) AccessorTags() map[string]string {
	return map[string]string{
		"GetTotal":  "total",
		"SetAmount": "amount;precision:4",
	}
}

// Receipt inherits the table marker and accessors of Invoice.
type Receipt struct {
	Invoice
	Reference string `db:"reference"`
}

type Profile struct {
	_       struct{} `db:"table:profiles"`
	Active  bool     `db:"active"`
	Nick    string
	visible bool
}

func (p *Profile) IsVisible() bool     { return p.visible }
func (p *Profile) SetVisible(v bool)   { p.visible = v }
func (p *Profile) GetNick() string     { return p.Nick }
func (p *Profile) SetNick(v string)    { p.Nick = v }
func (p *Profile) SetScore(v int)      {}
func (p *Profile) GetRank() string     { return "" }
func (p *Profile) SetRank(v int)       {}
func (p *Profile) Getaway() string     { return "" }
func (p *Profile) String() string      { return p.Nick }
func (p *Profile) Settle(a, b int)     {}

type Tracked struct {
	_   struct{}  `db:"table:tracked"`
	ID  uuid.UUID `db:"id"`
	Ref ulid.ULID `db:"ref"`
}

type Schedule struct {
	_        struct{}         `db:"table:schedules"`
	Day      pgtype.Date      `db:"day"`
	At       pgtype.Timestamp `db:"at"`
	Deadline *time.Time       `db:"deadline"`
}

type namedTable struct {
	Code string `db:"code"`
}

func (namedTable) TableName() string { return "named_tables" }

type LineItem struct {
	_         struct{} `db:"table"`
	FirstName string   `db:"length:10"`
	Quantity  int      `db:"column"`
}

type Tagged struct {
	_    struct{} `orm:"table:tagged"`
	Name string   `orm:"name" db:"ignored"`
	Size int      `db:"size"`
}

type BadLength struct {
	_    struct{} `db:"table:bad"`
	Name string   `db:"name;length:abc"`
}

type Aliased struct {
	_         struct{} `db:"table:aliased"`
	UpdatedAt Document `db:"audit_time"`
	Code      string   `db:"code"`
}

type AliasLoop struct {
	_    struct{} `db:"table:loops"`
	Code string   `db:"loop_a"`
}

type DecimalText string

type Ledger struct {
	_       struct{}       `db:"table:ledger"`
	Balance pgtype.Numeric `db:"balance;precision:18;scale:4"`
	Fee     DecimalText    `db:"fee"`
	Booked  pgtype.Date    `db:"booked"`
	Count   int64          `db:"count"`
}

type Audit struct {
	UpdatedBy string `db:"updated_by;length:64"`
	Revision  int    `db:"revision"`
}

type Identified struct {
	ID int `db:"id"`
}

// Customer embeds two structs; columns of both must be found.
type Customer struct {
	_ struct{} `db:"table:customers"`
	Identified
	*Audit
	Name string `db:"name"`
}

type Stamped struct {
	Audit
}

// Supplier reaches Audit through a second embed two levels down.
type Supplier struct {
	_ struct{} `db:"table:suppliers"`
	Identified
	Stamped
}

type Window struct {
	_      struct{}            `db:"table:windows"`
	Opens  *pgtype.Timestamp   `db:"opens"`
	Closes *pgtype.Timestamptz `db:"closes"`
	Day    *pgtype.Date        `db:"day"`
}
