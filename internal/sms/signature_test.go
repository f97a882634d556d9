package sms

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"testing"
)

func signForTest(authToken, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(requestURL))
	for _, k := range keys {
		mac.Write([]byte(k + form.Get(k)))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidSignature(t *testing.T) {
	const token = "secret-token"
	const reqURL = "https://api.example.com/api/v1/webhooks/sms/inbound"
	form := url.Values{
		"From":       {"+15125550100"},
		"Body":       {"NEED 5000 sqft in Austin, TX"},
		"MessageSid": {"SM123"},
	}

	sig := signForTest(token, reqURL, form)

	if !ValidSignature(token, reqURL, form, sig) {
		t.Error("valid signature rejected")
	}
	if ValidSignature(token, reqURL, form, "bogus") {
		t.Error("bogus signature accepted")
	}
	if ValidSignature("other-token", reqURL, form, sig) {
		t.Error("signature accepted under the wrong token")
	}
	if ValidSignature(token, "", form, "") {
		t.Error("empty signature accepted")
	}

	tampered := url.Values{}
	for k, v := range form {
		tampered[k] = v
	}
	tampered.Set("Body", "something else")
	if ValidSignature(token, reqURL, tampered, sig) {
		t.Error("signature accepted after body tampering")
	}
}
