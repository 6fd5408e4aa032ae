package provider

// Kind identifies which known envelope wrapped a provider response.
type Kind int

const (
	// KindUnknown carries the raw payload unchanged.
	KindUnknown Kind = iota
	KindResults
	KindStocks
	KindCurrency
	KindInflation
	KindPrimeRate
	KindCoins
)

func (k Kind) String() string {
	switch k {
	case KindResults:
		return "results"
	case KindStocks:
		return "stocks"
	case KindCurrency:
		return "currency"
	case KindInflation:
		return "inflation"
	case KindPrimeRate:
		return "prime-rate"
	case KindCoins:
		return "coins"
	default:
		return "unknown"
	}
}

// Payload is a provider response decoded down to its meaningful sub-value.
type Payload struct {
	Kind  Kind
	Value any
}

// decodeTable lists the known envelope keys in priority order. When a
// payload could plausibly contain more than one key, the first entry wins;
// the order below is the contract.
var decodeTable = []struct {
	Key  string
	Kind Kind
}{
	{"results", KindResults},
	{"stocks", KindStocks},
	{"currency", KindCurrency},
	{"inflation", KindInflation},
	{"prime-rate", KindPrimeRate},
	{"coins", KindCoins},
}

// Decode selects the meaningful sub-value of a raw JSON payload. Object
// payloads are probed against the decode table; anything else, or an object
// with no known key, passes through as KindUnknown.
func Decode(raw any) Payload {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Payload{Kind: KindUnknown, Value: raw}
	}
	for _, entry := range decodeTable {
		if v, present := obj[entry.Key]; present {
			return Payload{Kind: entry.Kind, Value: v}
		}
	}
	return Payload{Kind: KindUnknown, Value: raw}
}

// Route is Decode reduced to the routed value.
func Route(raw any) any {
	return Decode(raw).Value
}
