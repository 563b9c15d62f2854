package usecase

import "testing"

func TestClassifyStore(t *testing.T) {
	tests := []struct {
		name      string
		storeName string
		want      StoreCategory
	}{
		{"amazon domain", "Amazon.in", CategoryAmazon},
		{"amazon seller suffix", "Amazon.in - Appario Retail", CategoryAmazon},
		{"flipkart", "Flipkart", CategoryFlipkart},
		{"croma", "Croma", CategoryCroma},
		{"cashify refurbished", "Cashify Store", CategoryCashify},
		{"reliance digital", "Reliance Digital", CategoryReliance},
		{"tata cliq with space", "Tata CLiQ", CategoryTataCliq},
		{"sahivalue", "SahiValue", CategorySahivalue},
		{"ovantica", "Ovantica", CategoryOvantica},
		{"unknown store", "Vijay Sales", CategoryGeneric},
		{"empty name", "", CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStore(tt.storeName)
			if got != tt.want {
				t.Errorf("ClassifyStore(%q) = %v, want %v", tt.storeName, got, tt.want)
			}
		})
	}
}

func TestClassifyStoreFirstMatchWins(t *testing.T) {
	// A name containing two rule substrings must resolve by table order,
	// never by map iteration or input order.
	got := ClassifyStore("Amazon via Flipkart Fulfilment")
	if got != CategoryAmazon {
		t.Errorf("ClassifyStore() = %v, want %v", got, CategoryAmazon)
	}
}

func TestStoreBadgeStyle(t *testing.T) {
	t.Run("branded store gets brand colors", func(t *testing.T) {
		style := StoreBadgeStyle("Amazon.in")
		if style.Background != "#FF9900" || style.Text != "#000000" {
			t.Errorf("StoreBadgeStyle(Amazon) = %+v", style)
		}
	})

	t.Run("recognized category without brand colors falls back", func(t *testing.T) {
		style := StoreBadgeStyle("Tata CLiQ")
		if style != neutralBadge {
			t.Errorf("StoreBadgeStyle(Tata CLiQ) = %+v, want neutral", style)
		}
	})

	t.Run("unknown store falls back", func(t *testing.T) {
		style := StoreBadgeStyle("Some Local Shop")
		if style != neutralBadge {
			t.Errorf("StoreBadgeStyle(unknown) = %+v, want neutral", style)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		if StoreBadgeStyle("Flipkart") != StoreBadgeStyle("flipkart") {
			t.Error("badge style varies with input casing")
		}
	})
}
