package rewards

// DefaultTiers is the star table of the contest.
var DefaultTiers = Tiers{
	{MaxPool: 5000, Stars: 1},
	{MaxPool: 7500, Stars: 2},
	{MaxPool: 16000, Stars: 3},
	{MaxPool: 17000, Stars: 4},
	{MaxPool: 18000, Stars: 5},
	{MaxPool: 19000, Stars: 6},
	{MaxPool: 22000, Stars: 7},
}

var DefaultRules = Rules{
	MinimumBid:     100,
	MaxTotalPool:   22000,
	StarMultiplier: 5,
	BeyondCap:      BeyondCapZero,
	Tiers:          DefaultTiers,
}

// DashboardRules are the rules the dashboard has always been run with.
var DashboardRules = DefaultRules.WithMinimumBid(500)

// DefaultOthers is the others' contribution every tool starts from.
const DefaultOthers = 1300
