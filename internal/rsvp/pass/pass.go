package pass

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"github.com/skip2/go-qrcode"

	"ms-calendar/internal/models"
)

// Generator renders encrypted QR entry passes for accepted responses to
// physical events. Door scanners hold the same secret and decode the payload
// back into the response.
type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

// Generate encrypts the response and encodes it as a 256px PNG QR code.
func (g *Generator) Generate(resp models.UserEventResponse) ([]byte, error) {
	encrypted, err := g.EncryptPayload(resp)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

// EncryptPayload produces the encrypted string embedded in the QR code.
func (g *Generator) EncryptPayload(resp models.UserEventResponse) (string, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return encryptAES(data, g.secret)
}

// Decode decrypts a scanned pass payload back into the response it was issued
// for.
func (g *Generator) Decode(encrypted string) (*models.UserEventResponse, error) {
	data, err := decryptAES(encrypted, g.secret)
	if err != nil {
		return nil, err
	}

	var resp models.UserEventResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	data := make([]byte, len(ciphertext)-aes.BlockSize)

	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])

	return data, nil
}
