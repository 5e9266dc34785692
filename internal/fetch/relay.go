package fetch

import "net/url"

// Relay is one public URL-rewriting proxy in the fallback chain. It is a
// connectivity workaround, not a trust boundary.
//
// Envelope relays wrap the proxied body in a JSON envelope with a
// "contents" field; raw relays return the body as-is. Each relay declares
// which shape it speaks.
type Relay struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Envelope bool   `yaml:"envelope" mapstructure:"envelope"`
}

// Rewrite builds the relay request URL for the given target.
func (r Relay) Rewrite(target string) string {
	return r.Endpoint + url.QueryEscape(target)
}

// relayEnvelope is the JSON shape returned by envelope relays.
type relayEnvelope struct {
	Contents string `json:"contents"`
	Status   struct {
		HTTPCode int `json:"http_code"`
	} `json:"status"`
}

// DefaultRelays returns the built-in relay chain, tried strictly in order.
func DefaultRelays() []Relay {
	return []Relay{
		{Name: "allorigins", Endpoint: "https://api.allorigins.win/get?url=", Envelope: true},
		{Name: "corsproxy", Endpoint: "https://corsproxy.io/?", Envelope: false},
		{Name: "codetabs", Endpoint: "https://api.codetabs.com/v1/proxy?quest=", Envelope: false},
	}
}
