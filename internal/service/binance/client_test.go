package binance

import "testing"

func TestDecodeAggTrade(t *testing.T) {
	b := []byte(`{"e":"aggTrade","E":1700000000123,"s":"BTCUSDT","a":26129,"p":"42000.50","q":"0.0125","f":100,"l":105,"T":1700000000120,"m":true,"M":true}`)
	tr, err := decodeAggTrade(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tr == nil {
		t.Fatal("expected trade")
	}
	if tr.TradeID != 26129 {
		t.Errorf("TradeID = %d, want 26129", tr.TradeID)
	}
	if tr.Price != 42000.50 {
		t.Errorf("Price = %v, want 42000.50", tr.Price)
	}
	if tr.Quantity != 0.0125 {
		t.Errorf("Quantity = %v, want 0.0125", tr.Quantity)
	}
	if !tr.IsBuyerMaker {
		t.Errorf("IsBuyerMaker = false, want true")
	}
	if tr.Symbol != "BTCUSDT" {
		t.Errorf("Symbol = %q", tr.Symbol)
	}
	if tr.Timestamp != 1700000000123 {
		t.Errorf("Timestamp = %d", tr.Timestamp)
	}
}

func TestDecodeAggTradeIgnoresOtherFrames(t *testing.T) {
	tr, err := decodeAggTrade([]byte(`{"result":null,"id":1}`))
	if err != nil || tr != nil {
		t.Fatalf("subscription ack should be skipped, got %v %v", tr, err)
	}
}

func TestDecodeAggTradeMissingFields(t *testing.T) {
	cases := []string{
		`{"e":"aggTrade","s":"BTCUSDT","p":"100","q":"1","m":false}`,    // no id
		`{"e":"aggTrade","s":"BTCUSDT","a":1,"q":"1","m":false}`,        // no price
		`{"e":"aggTrade","s":"BTCUSDT","a":1,"p":"100","m":false}`,      // no quantity
		`{"e":"aggTrade","s":"BTCUSDT","a":1,"p":"100","q":"1"}`,        // no maker flag
		`{"e":"aggTrade","s":"BTCUSDT","a":1,"p":"x","q":"1","m":true}`, // bad price
		`{"e":"aggTrade","s":"BTCUSDT","a":1,"p":"1","q":"y","m":true}`, // bad quantity
		`not json`,
	}
	for _, c := range cases {
		if _, err := decodeAggTrade([]byte(c)); err == nil {
			t.Errorf("expected error for %s", c)
		}
	}
}
