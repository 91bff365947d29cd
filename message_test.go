package outbox

import "testing"

func TestMessageValidate(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		err  error
	}{
		{
			name: "missing recipient",
			msg:  Message{Subject: "s", Content: "c"},
			err:  ErrRecipientRequired,
		},
		{
			name: "missing subject",
			msg:  Message{To: "user@example.com", Content: "c"},
			err:  ErrSubjectRequired,
		},
		{
			name: "missing content",
			msg:  Message{To: "user@example.com", Subject: "s"},
			err:  ErrContentRequired,
		},
		{
			name: "valid",
			msg:  Message{To: "user@example.com", Subject: "s", Content: "c"},
			err:  nil,
		},
		{
			name: "valid with cc and bcc",
			msg: Message{
				To:      "user@example.com",
				Subject: "s",
				Content: "c",
				CC:      []string{"cc@example.com"},
				BCC:     []string{"bcc@example.com"},
			},
			err: nil,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.err == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.err != nil && err != tc.err {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
		})
	}
}
