//
// Copyright 2017-2022 ArangoDB GmbH, Cologne, Germany
//
// The Programs (which include both the software and documentation) contain
// proprietary information of ArangoDB GmbH; they are provided under a license
// agreement containing restrictions on use and disclosure and are also
// protected by copyright, patent and other intellectual and industrial
// property laws. Reverse engineering, disassembly or decompilation of the
// Programs, except to the extent required to obtain interoperability with
// other independently created software or as specified by law, is prohibited.
//
// It shall be the licensee's responsibility to take all appropriate fail-safe,
// backup, redundancy, and other measures to ensure the safe use of
// applications if the Programs are used for purposes such as nuclear,
// aviation, mass transit, medical, or other inherently dangerous applications,
// and ArangoDB GmbH disclaims liability for any damages caused by such use of
// the Programs.
//
// This software is the confidential and proprietary information of ArangoDB
// GmbH. You shall not disclose such confidential and proprietary information
// and shall use it only in accordance with the terms of the license agreement
// you entered into with ArangoDB GmbH.
//

package client

import (
	"testing"
)

func TestEndpointContains(t *testing.T) {
	ep := Endpoint{"http://a", "http://b", "http://c"}
	for _, x := range []string{"http://a", "http://b", "http://c", "http://a/"} {
		if !ep.Contains(x) {
			t.Errorf("Expected endpoint to contain '%s' but it did not", x)
		}
	}
	for _, x := range []string{"", "http://ab", "-", "http://abc"} {
		if ep.Contains(x) {
			t.Errorf("Expected endpoint to not contain '%s' but it did", x)
		}
	}
}

func TestEndpointIsEmpty(t *testing.T) {
	ep := Endpoint{"http://a"}
	if ep.IsEmpty() {
		t.Error("Expected endpoint to be not empty, but it is")
	}
	ep = nil
	if !ep.IsEmpty() {
		t.Error("Expected endpoint to be empty, but it is not")
	}
}

func TestEndpointEquals(t *testing.T) {
	expectEqual := []Endpoint{
		{}, {},
		{}, nil,
		{"http://a"}, {"http://a"},
		{"http://a", "http://b"}, {"http://b", "http://a"},
		{"http://foo:8629"}, {"http://foo:8629/"},
	}
	for i := 0; i < len(expectEqual); i += 2 {
		epa := expectEqual[i]
		epb := expectEqual[i+1]
		if !epa.Equals(epb) {
			t.Errorf("Expected endpoint %v to be equal to %v, but it is not", epa, epb)
		}
		if !epb.Equals(epa) {
			t.Errorf("Expected endpoint %v to be equal to %v, but it is not", epb, epa)
		}
	}

	expectNotEqual := []Endpoint{
		{"http://a"}, {},
		{"http://z"}, nil,
		{"http://aa"}, {"http://a"},
		{"http://a", "http://b", "http://c"}, {"http://b", "http://a"},
	}
	for i := 0; i < len(expectNotEqual); i += 2 {
		epa := expectNotEqual[i]
		epb := expectNotEqual[i+1]
		if epa.Equals(epb) {
			t.Errorf("Expected endpoint %v to be not equal to %v, but it is", epa, epb)
		}
	}
}

func TestEndpointClone(t *testing.T) {
	tests := []Endpoint{
		{},
		{"http://a"},
		{"http://a", "http://b"},
	}
	for _, orig := range tests {
		c := orig.Clone()
		if !orig.Equals(c) {
			t.Errorf("Expected endpoint %v to be equal to clone %v, but it is not", orig, c)
		}
		if len(c) > 0 {
			c[0] = "http://modified"
			if orig.Equals(c) {
				t.Errorf("Expected endpoint %v to be no longer equal to clone %v, but it is", orig, c)
			}
		}
	}
}

func TestEndpointURLs(t *testing.T) {
	ep := Endpoint{"http://a:8629", "http://b:8629/path"}
	urls, err := ep.URLs()
	if err != nil {
		t.Fatalf("URLs expected to succeed, but got %s", err)
	}
	if len(urls) != 2 {
		t.Fatalf("Expected 2 urls, got %d", len(urls))
	}
	if urls[0].Host != "a:8629" {
		t.Errorf("Unexpected host in url[0]: %s", urls[0].Host)
	}
	if urls[1].Path != "" {
		t.Errorf("Expected path to be stripped, got '%s'", urls[1].Path)
	}
}

func TestEndpointValidate(t *testing.T) {
	valid := Endpoint{"http://a:8629", "https://b"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected endpoint to be valid, got %s", err)
	}
	invalid := Endpoint{"ftp://a"}
	if err := invalid.Validate(); err == nil {
		t.Error("Expected endpoint to be invalid, but Validate succeeded")
	}
}
