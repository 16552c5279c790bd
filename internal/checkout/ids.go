package checkout

import (
	"fmt"
	"math/rand"
)

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newOrderID generates an order identifier like ORD-7K2M9QX4. Collisions are
// not checked for; at this scale the odds are acceptable.
func newOrderID() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return "ORD-" + string(b)
}

// newTransactionID generates a card transaction identifier like TXN-482913.
func newTransactionID() string {
	return fmt.Sprintf("TXN-%d", rand.Intn(1_000_000))
}
