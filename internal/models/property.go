package models

// Property is the canonical listing record every provider is normalized into.
// Nullable numerics are pointers so "unknown" survives JSON and CSV round trips.
type Property struct {
	ID              string   `json:"id"`
	Address         string   `json:"address"`
	Price           int      `json:"price"`
	Beds            *float64 `json:"beds"`
	Baths           *float64 `json:"baths"`
	Sqft            *int     `json:"sqft"`
	LotSize         *int     `json:"lotSize"`
	YearBuilt       *int     `json:"yearBuilt"`
	PropertyType    string   `json:"propertyType"`
	DaysOnMarket    *int     `json:"daysOnMarket"`
	PriceDrop       int      `json:"priceDrop"`
	EstimatedValue  *int     `json:"estimatedValue"`
	LastSoldPrice   *int     `json:"lastSoldPrice"`
	LastSoldDate    *string  `json:"lastSoldDate"`
	URL             string   `json:"url"`
	ImageURL        string   `json:"imageUrl"`
	Provider        string   `json:"provider"`
	MotivationScore *int     `json:"motivationScore"`
	ScoreFactors    []string `json:"scoreFactors"`
}

// ROIBreakdown is the investment analysis returned by the advisor. Numbers the
// analysis could not produce stay nil.
type ROIBreakdown struct {
	PurchasePrice    int      `json:"purchasePrice"`
	SuggestedOffer   *float64 `json:"suggestedOffer"`
	EstimatedRepairs *float64 `json:"estimatedRepairs"`
	RehabCosts       *float64 `json:"rehabCosts"`
	AfterRepairValue *float64 `json:"afterRepairValue"`
	RentalIncome     *float64 `json:"rentalIncome"`
	Expenses         *float64 `json:"expenses"`
	Cashflow         *float64 `json:"cashflow"`
	CapRate          *float64 `json:"capRate"`
	ROI              *float64 `json:"roi"`
	Summary          string   `json:"summary"`
	Recommendations  string   `json:"recommendations"`
	Source           string   `json:"source"`
	Fallback         bool     `json:"fallback,omitempty"`
	RetryHint        string   `json:"retryHint,omitempty"`
}

func Int(v int) *int { return &v }

func Float(v float64) *float64 { return &v }

func String(v string) *string { return &v }
