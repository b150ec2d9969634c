package core

// CoinAction names a bookkeeping action that earns Paddy Coins.
type CoinAction string

const (
	ActionRecordSale    CoinAction = "record_sale"
	ActionRecordExpense CoinAction = "record_expense"
	ActionAddItem       CoinAction = "add_item"
	ActionCreateInvoice CoinAction = "create_invoice"
	ActionDailyLogin    CoinAction = "daily_login"
	ActionLoginStreak7  CoinAction = "login_streak_7"
	ActionFileTax       CoinAction = "file_tax"
	ActionFirstSale     CoinAction = "first_sale"
)

// coinRewards is the default earning table. Businesses may override amounts
// through coin_reward_rules (see RewardRules).
var coinRewards = map[CoinAction]int64{
	ActionRecordSale:    5,
	ActionRecordExpense: 3,
	ActionAddItem:       2,
	ActionCreateInvoice: 3,
	ActionDailyLogin:    1,
	ActionLoginStreak7:  10,
	ActionFileTax:       20,
	ActionFirstSale:     10,
}

// RewardFor returns the default coin amount for action.
func RewardFor(action CoinAction) (int64, bool) {
	n, ok := coinRewards[action]
	return n, ok
}

// CoinRewards returns a copy of the default earning table.
func CoinRewards() map[CoinAction]int64 {
	out := make(map[CoinAction]int64, len(coinRewards))
	for k, v := range coinRewards {
		out[k] = v
	}
	return out
}

// CoinRedemptionOption is an entry in the static rewards catalog.
type CoinRedemptionOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	RewardType  string `json:"reward_type"`
	Icon        string `json:"icon"`
}

var redemptionOptions = []CoinRedemptionOption{
	{ID: "airtime-500", Name: "₦500 Airtime", Description: "Airtime top-up on any network", Cost: 100, RewardType: "airtime", Icon: "📱"},
	{ID: "data-1gb", Name: "1GB Data Bundle", Description: "30-day data bundle", Cost: 150, RewardType: "data", Icon: "📶"},
	{ID: "training", Name: "Business Training", Description: "Access to a bookkeeping and growth masterclass", Cost: 250, RewardType: "training", Icon: "🎓"},
	{ID: "premium-report", Name: "Premium Report", Description: "Detailed quarterly business health report", Cost: 300, RewardType: "feature", Icon: "📊"},
	{ID: "loan-discount", Name: "Loan Interest Discount", Description: "0.5% off the monthly rate on your next loan", Cost: 500, RewardType: "discount", Icon: "💰"},
}

// RedemptionOptions returns a copy of the catalog, cheapest first.
func RedemptionOptions() []CoinRedemptionOption {
	out := make([]CoinRedemptionOption, len(redemptionOptions))
	copy(out, redemptionOptions)
	return out
}

// FindRedemptionOption looks up a catalog entry by ID.
func FindRedemptionOption(id string) (CoinRedemptionOption, bool) {
	for _, o := range redemptionOptions {
		if o.ID == id {
			return o, true
		}
	}
	return CoinRedemptionOption{}, false
}

// RedemptionView is a catalog entry annotated for a particular balance.
type RedemptionView struct {
	CoinRedemptionOption
	Affordable  bool  `json:"affordable"`
	CoinsNeeded int64 `json:"coins_needed"`
}

// AffordableOptions annotates every catalog entry using CanRedeem.
func AffordableOptions(balance int64) []RedemptionView {
	views := make([]RedemptionView, 0, len(redemptionOptions))
	for _, o := range redemptionOptions {
		v := RedemptionView{CoinRedemptionOption: o, Affordable: CanRedeem(balance, o.Cost)}
		if !v.Affordable {
			v.CoinsNeeded = o.Cost - balance
		}
		views = append(views, v)
	}
	return views
}
