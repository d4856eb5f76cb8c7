package types

import "time"

// Side is the transaction side of an order or position. CE/PE come from the
// signal classifier; BUY/SELL are used for raw broker legs (exits, panic).
type Side string

const (
	SideCE   Side = "CE"
	SidePE   Side = "PE"
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// IsLong reports whether the side carries long bias for PnL purposes.
func (s Side) IsLong() bool { return s == SideCE || s == SideBuy }

// Opposite returns the broker side that offsets this side.
func (s Side) Opposite() Side {
	if s.IsLong() {
		return SideSell
	}
	return SideBuy
}

// Tick is a normalized market-data event. Transient: a later tick for the
// same token supersedes this one unconditionally.
type Tick struct {
	Token uint32
	LTP   float64
	Seq   uint64
	Ts    int64
}

type Candle struct {
	Ts                     int64
	Open, High, Low, Close float64
	Vol                    float64
}

// Indicators is the snapshot recomputed on each bar close.
type Indicators struct {
	Baseline float64
	StopLine float64
	RSI      float64
}

// Signal is a classified trading opportunity. Absence of a signal is
// expressed by not producing one, never by an error.
type Signal struct {
	Token     uint32
	Symbol    string
	Direction Side
	LTP       float64
	Ind       Indicators
}

type OrderStatus string

const (
	OrderSuccess OrderStatus = "SUCCESS"
	OrderFailed  OrderStatus = "FAILED"
)

// Order tags describe why an order was submitted.
const (
	TagSignal   = "SIGNAL"
	TagAutoExit = "AUTO_EXIT"
	TagPanic    = "PANIC"
)

// OrderReq is a request handed to the execution gateway.
type OrderReq struct {
	Symbol string
	Token  uint32
	Side   Side
	Qty    int
	Price  float64
	Tag    string
}

// OrderAck is the broker's acknowledgement of a placed order.
type OrderAck struct {
	OrderID string
	Status  string
	Message string
}

// Order is the immutable record of a submission outcome.
type Order struct {
	ID          string      `json:"id,omitempty"`
	Symbol      string      `json:"symbol"`
	Token       uint32      `json:"token"`
	Side        Side        `json:"side"`
	Qty         int         `json:"qty"`
	Status      OrderStatus `json:"status"`
	FillPrice   float64     `json:"fill_price"`
	Tag         string      `json:"tag"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

type PositionStatus string

const (
	PositionOpen   PositionStatus = "OPEN"
	PositionClosed PositionStatus = "CLOSED"
)

// Position is mutated on every price-cache recompute (CurrentPrice, PnL) and
// on exit evaluation (Status). Everything else is fixed at entry.
type Position struct {
	Symbol       string
	Token        uint32
	Side         Side
	Qty          int
	AvgPrice     float64
	CurrentPrice float64
	PnL          float64
	StopLoss     float64
	TakeProfit   float64
	EntryTime    time.Time
	Status       PositionStatus
}

// PnLStats is a pure aggregate over all OPEN positions.
type PnLStats struct {
	NetProfit   float64
	TotalProfit float64
	TotalLoss   float64
	ROI         float64
}

// DenyReason explains why the risk controller refused a signal.
type DenyReason string

const (
	DenyPanicHalt     DenyReason = "panic_halt"
	DenyExposureLimit DenyReason = "exposure_limit"
	DenyCapitalLimit  DenyReason = "capital_limit"
	DenySizingZero    DenyReason = "sizing_zero"
)
