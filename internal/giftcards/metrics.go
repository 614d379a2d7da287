package giftcards

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cardsIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gift_cards_issued_total",
		Help: "Total number of gift cards issued",
	}, []string{"card_type"})

	redemptionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_card_redemptions_total",
		Help: "Total number of successful gift card redemptions",
	})

	redeemedAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_card_redeemed_amount_total",
		Help: "Total monetary amount applied through redemptions",
	})

	refundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_card_refunds_total",
		Help: "Total number of gift card refunds",
	})

	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gift_card_rejections_total",
		Help: "Total number of redemptions rejected by validation",
	}, []string{"reason"})

	expiredSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_cards_expired_swept_total",
		Help: "Total number of cards transitioned to expired by the sweep",
	})

	cardsDisabledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_cards_disabled_total",
		Help: "Total number of gift cards cancelled by an administrator",
	})

	codeCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_card_code_collisions_total",
		Help: "Total number of code generation collisions requiring a retry",
	})
)
