package domain

import "github.com/shopspring/decimal"

// DefaultPlatformFeeRate is the platform's revenue share. The effective rate is
// threaded through configuration so it can vary without code change.
const DefaultPlatformFeeRate = 0.30

// RevenueSplit is the platform/seller division of a captured total.
type RevenueSplit struct {
	TotalAmount  float64
	PlatformFee  float64
	SellerAmount float64
}

// SplitRevenue divides total between platform and seller at the given fee rate.
// The fee is rounded half-up to the smallest currency unit and the seller share
// is the exact remainder, so PlatformFee + SellerAmount == TotalAmount to the cent.
func SplitRevenue(total, feeRate float64) RevenueSplit {
	totalDec := decimal.NewFromFloat(total)
	fee := totalDec.Mul(decimal.NewFromFloat(feeRate)).Round(2)
	seller := totalDec.Sub(fee)
	return RevenueSplit{
		TotalAmount:  totalDec.InexactFloat64(),
		PlatformFee:  fee.InexactFloat64(),
		SellerAmount: seller.InexactFloat64(),
	}
}
