package domain

import "testing"

func TestIdentityOf(t *testing.T) {
	tests := []struct {
		name   string
		source string
		prod   string
		price  string
		want   string
	}{
		{
			name:   "strips whitespace and lowercases",
			source: "Amazon.in",
			prod:   "iPhone 15 Pro",
			price:  "₹1,29,900",
			want:   "amazon.in-iphone15pro-₹1,29,900",
		},
		{
			name:   "tabs and newlines removed",
			source: "Flip kart",
			prod:   "Pixel\t8",
			price:  "49999",
			want:   "flipkart-pixel8-49999",
		},
		{
			name:   "empty fields keep separators",
			source: "",
			prod:   "",
			price:  "",
			want:   "--",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentityOf(tt.source, tt.prod, tt.price)
			if got != tt.want {
				t.Errorf("IdentityOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentityIgnoresEphemeralFields(t *testing.T) {
	a := ProductRecord{
		Name:   "iPhone 15",
		Price:  "79900",
		Source: "Amazon.in",
		Link:   "https://www.amazon.in/dp/ABC",
		Image:  "https://img.example/1.jpg",
	}
	b := ProductRecord{
		Name:   "iPhone 15",
		Price:  "79900",
		Source: "Amazon.in",
		Link:   "https://www.amazon.in/dp/XYZ?tracking=1",
		Image:  "https://img.example/2.jpg",
	}

	if a.Identity() != b.Identity() {
		t.Errorf("identities differ: %q vs %q", a.Identity(), b.Identity())
	}
}

func TestIdentityCaseAndSpacingInsensitive(t *testing.T) {
	a := IdentityOf("Amazon.in", "MacBook Air M2", "94,990")
	b := IdentityOf("amazon.in", "macbook air m2", " 94,990 ")

	if a != b {
		t.Errorf("identities differ: %q vs %q", a, b)
	}
}
