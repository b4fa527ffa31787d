package inline

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mr-tron/base58"
)

type codec struct {
	encode func([]byte) string
	decode func(string) ([]byte, error)
}

var codecs = map[string]codec{
	"base64":    {base64.StdEncoding.EncodeToString, base64.StdEncoding.DecodeString},
	"base64url": {base64.RawURLEncoding.EncodeToString, base64.RawURLEncoding.DecodeString},
	"hex":       {hex.EncodeToString, hex.DecodeString},
	"base58":    {base58.Encode, base58.Decode},
	"utf8":      {encodeUTF8, decodeIdentity},
	"utf-8":     {encodeUTF8, decodeIdentity},
	"latin1":    {encodeLatin1, decodeLatin1},
	"binary":    {encodeLatin1, decodeLatin1},
}

func lookupCodec(encoding string) (codec, error) {
	c, ok := codecs[strings.ToLower(encoding)]
	if !ok {
		return codec{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
	return c, nil
}

// TryInline returns a data URI for data when it fits within limit. A limit of 0
// disables inlining. ok is false when the data is too large, which is not an error.
func TryInline(data []byte, name string, limit int64, encoding string) (uri string, ok bool, err error) {
	if limit <= 0 || int64(len(data)) > limit {
		return "", false, nil
	}

	c, err := lookupCodec(encoding)
	if err != nil {
		return "", false, err
	}

	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(MimeType(name))
	sb.WriteByte(';')
	sb.WriteString(encoding)
	sb.WriteByte(',')
	sb.WriteString(c.encode(data))

	return sb.String(), true, nil
}

// TryInlineFile reads the file at path as raw bytes then behaves as TryInline.
func TryInlineFile(ctx context.Context, path, name string, limit int64, encoding string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}

	return TryInline(data, name, limit, encoding)
}

// DecodeDataURI splits uri into its media type, encoding and decoded payload.
func DecodeDataURI(uri string) (data []byte, mimeType, encoding string, err error) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return nil, "", "", ErrInvalidDataURI
	}

	header, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", "", ErrInvalidDataURI
	}

	idx := strings.LastIndexByte(header, ';')
	if idx < 0 {
		return nil, "", "", ErrInvalidDataURI
	}
	mimeType, encoding = header[:idx], header[idx+1:]

	c, err := lookupCodec(encoding)
	if err != nil {
		return nil, "", "", err
	}

	data, err = c.decode(payload)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}

	return data, mimeType, encoding, nil
}

func encodeUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

func decodeIdentity(s string) ([]byte, error) {
	return []byte(s), nil
}

// latin1 maps every byte to the code point of the same value.
func encodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

func decodeLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, fmt.Errorf("code point %U outside latin1", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
