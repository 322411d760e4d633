package scenario

// Tool names used by the built-in suites.
const (
	ToolListExchanges = "list-exchanges"
	ToolMarketTypes   = "get-market-types"
	ToolOHLCV         = "get-ohlcv"
	ToolTicker        = "get-ticker"
)

// Arguments of the public tools suite.
const (
	DefaultExchange   = "bybit"
	DefaultSymbol     = "BTC/USDT:USDT"
	DefaultTimeframe  = "5m"
	DefaultMarketType = "swap"
	DefaultLimit      = 5
)

// DiagnosticSuite calls list-exchanges without arguments and expects a list
// of exchanges (or a plain text listing).
func DiagnosticSuite() []Definition {
	return []Definition{
		{
			Name:   "list exchanges",
			Tool:   ToolListExchanges,
			Args:   map[string]any{},
			Expect: AnyOf(IsList(), IsString()),
		},
	}
}

// PublicToolsSuite exercises the public market-data tools on bybit.
func PublicToolsSuite() []Definition {
	return []Definition{
		{
			Name:   "market types",
			Tool:   ToolMarketTypes,
			Args:   map[string]any{"exchange": DefaultExchange},
			Expect: ObjectWithListKey("marketTypes"),
		},
		{
			Name: "ohlcv",
			Tool: ToolOHLCV,
			Args: map[string]any{
				"exchange":   DefaultExchange,
				"symbol":     DefaultSymbol,
				"timeframe":  DefaultTimeframe,
				"limit":      DefaultLimit,
				"marketType": DefaultMarketType,
			},
			RequireStringResponse: true,
		},
		{
			Name: "ticker",
			Tool: ToolTicker,
			Args: map[string]any{
				"exchange":   DefaultExchange,
				"symbol":     DefaultSymbol,
				"marketType": DefaultMarketType,
			},
			RequireStringResponse: true,
		},
	}
}
