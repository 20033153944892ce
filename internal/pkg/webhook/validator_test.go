package webhook

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		ev   *CanonicalEvent
		want bool
	}{
		{
			name: "nil event",
			ev:   nil,
			want: false,
		},
		{
			name: "missing kind",
			ev:   &CanonicalEvent{Payload: Payload{OrderID: "O-1"}},
			want: false,
		},
		{
			name: "missing order id",
			ev:   &CanonicalEvent{Kind: EventPayment, RawKind: "on_payment"},
			want: false,
		},
		{
			name: "valid payment",
			ev: &CanonicalEvent{
				Kind:    EventPayment,
				RawKind: "on_payment",
				Payload: Payload{OrderID: "O-1"},
			},
			want: true,
		},
		{
			name: "affiliate approval without order id",
			ev: &CanonicalEvent{
				Kind:    EventAffiliateApproved,
				RawKind: "on_affiliate_approved",
				Payload: Payload{AffiliateID: "AFF-1"},
			},
			want: true,
		},
		{
			name: "unknown kind is accepted",
			ev: &CanonicalEvent{
				Kind:    EventKind("on_chargeback"),
				RawKind: "on_chargeback",
				Payload: Payload{OrderID: "O-1"},
			},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Validate(tc.ev); got != tc.want {
				t.Fatalf("Validate() = %t, want %t", got, tc.want)
			}
		})
	}
}
