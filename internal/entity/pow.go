package entity

// Challenge is issued per connection. It gates the request with proof of work and
// doubles as the nonce the request signature is bound to.
type Challenge struct {
	Version    int    `json:"version"`
	Algo       string `json:"algo"`
	Difficulty int    `json:"difficulty"`
	SaltB64    string `json:"salt_b64"`
	Expires    int64  `json:"expires"`
}

type Solution struct {
	Nonce string `json:"nonce"`
}
