package giftcards

// applyRedemption computes the effect of redeeming amount from a card.
// Redemption never overdraws: asking for more than the balance caps at
// the balance, so the checkout caller can cover the remainder another
// way. Draining the balance to zero flips the card to redeemed.
func applyRedemption(card *GiftCard, amount float64) (applied, newBalance float64, newStatus CardStatus) {
	applied = amount
	if applied > card.CurrentBalance {
		applied = card.CurrentBalance
	}
	newBalance = card.CurrentBalance - applied
	newStatus = card.Status
	if newBalance == 0 {
		newStatus = CardStatusRedeemed
	}
	return applied, newBalance, newStatus
}

// applyRefund computes the effect of crediting amount back to a card.
// The balance never climbs above the originally issued amount, which
// keeps a double-delivered refund from minting value. A redeemed card
// whose balance comes back above zero reactivates.
func applyRefund(card *GiftCard, amount float64) (credited, newBalance float64, newStatus CardStatus) {
	newBalance = card.CurrentBalance + amount
	if newBalance > card.InitialBalance {
		newBalance = card.InitialBalance
	}
	credited = newBalance - card.CurrentBalance
	newStatus = card.Status
	if card.Status == CardStatusRedeemed && newBalance > 0 {
		newStatus = CardStatusActive
	}
	return credited, newBalance, newStatus
}
