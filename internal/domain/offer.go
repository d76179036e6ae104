package domain

// Notification statuses used in the run summary
const (
	StatusClaimed          = "claimed"
	StatusRedeem           = "redeem"
	StatusRedeemCaptcha    = "redeem (got captcha)"
	StatusRedeemNotFound   = "redeem (not found)"
	StatusRedeemLogin      = "redeem (login)"
	StatusAlreadyRedeemed  = "already redeemed"
	StatusRedeemedUnsure   = "redeemed?"
	statusFailedLinkPrefix = "failed - link "
	statusClaimedOnPrefix  = "claimed on "
)

// StatusFailedLink is the status of an offer that needs a linked store account
func StatusFailedLink(store string) string {
	return statusFailedLinkPrefix + store
}

// StatusClaimedOn is the status of an external offer that was claimed but not redeemed
func StatusClaimedOn(store string) string {
	return statusClaimedOnPrefix + store
}

// NotifyItem is one line of the run summary
type NotifyItem struct {
	Title  string
	Status string
	URL    string

	// Set for offers that produced a redeemable code
	Code      string
	Store     string
	RedeemURL string
}
