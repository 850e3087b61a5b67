package domain

// CompanyProfile is the issuer printed on the letterhead, payment block and mail footer
type CompanyProfile struct {
	Name          string   `json:"name"`
	AddressLines  []string `json:"addressLines"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	BillingEmail  string   `json:"billingEmail"`
	NPWP          string   `json:"npwp"`
	BankName      string   `json:"bankName"`
	AccountNumber string   `json:"accountNumber"`
	AccountHolder string   `json:"accountHolder"`
}

// DefaultCompanyProfile returns the issuer used when nothing is configured
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name: "PT Supernesia Creative Technology",
		AddressLines: []string{
			"Gedung Wirausaha Lt. 1 Unit 104",
			"Jl. HR Rasuna Said Kav. C-5",
			"Jakarta Selatan, 12920, Daerah Khusus Ibukota Jakarta",
		},
		Phone:         "0812-8189-2625",
		Email:         "info@supernesia.id",
		BillingEmail:  "billing@supernesia.id",
		NPWP:          "1000.0000.0276.1335",
		BankName:      "BCA",
		AccountNumber: "1060203284",
		AccountHolder: "Alexander H Sitanggang",
	}
}
