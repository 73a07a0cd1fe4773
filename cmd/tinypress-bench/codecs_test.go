package main

import "testing"

func TestLookupCodec(t *testing.T) {
	for _, name := range defaultCodecs {
		c, err := lookupCodec(name)
		if err != nil {
			t.Errorf("lookupCodec(%q) error = %v", name, err)
			continue
		}
		if c.Name() != name {
			t.Errorf("lookupCodec(%q).Name() = %q", name, c.Name())
		}
	}

	if c, err := lookupCodec("LZ"); err != nil || c.Name() != "lz77" {
		t.Errorf("lookupCodec(LZ) = %v, %v, want lz77", c, err)
	}
	if _, err := lookupCodec("brotli"); err == nil {
		t.Error("lookupCodec(brotli) error = nil, want error")
	}
}

func TestLookupCodecs_Dedup(t *testing.T) {
	codecs, err := lookupCodecs([]string{"lz", "rle", "lz77"})
	if err != nil {
		t.Fatalf("lookupCodecs() error = %v", err)
	}
	if len(codecs) != 2 {
		t.Fatalf("lookupCodecs() returned %d codecs, want 2", len(codecs))
	}
	if codecs[0].Name() != "lz77" || codecs[1].Name() != "rle" {
		t.Errorf("order = %s, %s, want lz77, rle", codecs[0].Name(), codecs[1].Name())
	}
}
