package orders

// PricingStrategy is the rule used to fold multiple flavor prices into one line price.
type PricingStrategy string

const (
	PricingSum     PricingStrategy = "sum"
	PricingAverage PricingStrategy = "average"
	PricingMax     PricingStrategy = "max"
)

// PaymentMethod identifies how the customer pays for the order.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
)

// DeliveryMethod identifies how the order reaches the customer.
type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "delivery"
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryDineIn  DeliveryMethod = "dine_in"
)

// Flavor is one priced component of a composite (multi-flavor) line.
type Flavor struct {
	Name  string
	Price Money
}

// Complement is an add-on attached to a line (e.g. stuffed crust, extra sauce).
type Complement struct {
	Name     string
	Quantity int
	Price    Money
}

// OrderLine is a single normalized item of an order snapshot. When Flavors is
// non-empty the line is composite and its effective price comes from the
// flavor list folded with Pricing; the base Price field is ignored then.
type OrderLine struct {
	Name        string
	Quantity    int
	Price       Money // per-unit base price, used only when no flavors
	Notes       string
	Flavors     []Flavor
	Pricing     PricingStrategy // default: average
	Complements []Complement
}

// OrderSnapshot is an immutable projection of an order at event time. It is
// owned by the job payload and never mutated after job receipt.
type OrderSnapshot struct {
	Code           int64
	CustomerName   string
	CustomerPhone  string
	Notes          string
	PaymentMethod  PaymentMethod
	Change         *Money // change due, only meaningful for cash
	Status         OrderStatus
	DeliveryMethod DeliveryMethod
	Lines          []OrderLine
}
