package order

// Side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Status represents order lifecycle.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusAck      Status = "ACK"
	StatusPartial  Status = "PARTIAL"
	StatusFilled   Status = "FILLED"
	StatusCanceled Status = "CANCELED"
	StatusRejected Status = "REJECTED"
)

// Order type and time-in-force values submitted by the strategy. The
// core only ever sends immediate-execution market orders good for the
// current session.
const (
	TypeMarket = "MARKET"
	TIFDay     = "DAY"
)

// Order holds a simplified working-order view.
type Order struct {
	ID       string
	Symbol   string
	Side     Side
	Price    float64
	Quantity int
	Status   Status
}

// Request describes a new order to submit. Price is indicative for
// market orders: best ask for buys, best bid for sells.
type Request struct {
	Symbol          string
	Quantity        int
	IndicativePrice float64
	Venue           string
	Side            Side
	TimeInForce     string
	Type            string
}

// UpdateType classifies an order update event.
type UpdateType string

const (
	UpdateAck    UpdateType = "ACK"
	UpdateFill   UpdateType = "FILL"
	UpdateCancel UpdateType = "CANCEL"
	UpdateReject UpdateType = "REJECT"
)

// Fill carries execution details on a fill update.
type Fill struct {
	Size  int
	Price float64
}

// Update is the order event delivered back to the strategy. The
// strategy consumes it for observability only; position is read fresh
// from the portfolio collaborator.
type Update struct {
	OrderID        string
	UpdateType     UpdateType
	Reason         string
	Fill           *Fill
	CompletesOrder bool
	Order          Order
}
