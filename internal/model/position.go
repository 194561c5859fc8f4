package model

// TradeDirection is the side of an open position.
type TradeDirection string

const (
	DirectionLong  TradeDirection = "Long"
	DirectionShort TradeDirection = "Short"
)

// Position is one directional leg of an open broker position.
type Position struct {
	Instrument   string         `json:"instrument"`
	Direction    TradeDirection `json:"direction"`
	Units        float64        `json:"units"`
	UnrealizedPL float64        `json:"unrealized_pnl"`
}
