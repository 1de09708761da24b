package rpc

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	if codec == nil {
		t.Fatal("expected json codec to be registered")
	}

	data, err := codec.Marshal(&VerifyTokenRequest{Token: "4821"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"token":"4821"}` {
		t.Errorf("unexpected wire form: %s", data)
	}

	var req VerifyTokenRequest
	if err := codec.Unmarshal(data, &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.Token != "4821" {
		t.Errorf("expected token 4821, got %q", req.Token)
	}
}
