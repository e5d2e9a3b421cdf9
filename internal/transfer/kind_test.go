package transfer

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		mimeType string
		want     Kind
	}{
		{"", KindFile},
		{"text/x-vcard", KindFile},
		{"image/jpeg", KindFile},
		{"x-bt/vcard-listing", KindVCardListing},
		{"x-obex/folder-listing", KindFolderListing},
		{"x-bt/phonebook", KindInternal},
		{"x-bt/vcard", KindInternal},
		{"x-obex/capability", KindInternal},
	}

	for _, tc := range cases {
		if got := Classify(tc.mimeType); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.mimeType, got, tc.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	if !KindVCardListing.Listing() || !KindFolderListing.Listing() {
		t.Error("listing kinds must report Listing")
	}
	if KindFile.Listing() || KindInternal.Listing() {
		t.Error("non-listing kinds must not report Listing")
	}

	if !KindFile.Publishable() {
		t.Error("plain files must be publishable")
	}
	for _, k := range []Kind{KindVCardListing, KindFolderListing, KindInternal} {
		if k.Publishable() {
			t.Errorf("kind %v must not be publishable", k)
		}
	}
}
