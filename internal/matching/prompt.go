package matching

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"regresa/internal/domain/lostpets"
)

const (
	Temperature     float32 = 0.1
	MaxOutputTokens int32   = 10

	imageSnippetLen = 100
)

// Rubric es la instrucción de sistema enviada en cada comparación.
const Rubric = `Eres un experto en identificación de mascotas. Compara la imagen del animal avistado con la descripción de la mascota perdida.
Considera: color del pelaje, tamaño, número de patas, marcas distintivas, raza y rasgos faciales.
Responde SOLO con un número entre 0 y 1 que indique la probabilidad de que sean el mismo animal.`

var (
	ErrEmptyReply   = errors.New("empty oracle reply")
	ErrScoreRange   = errors.New("score outside [0,1]")
	ErrInvalidImage = errors.New("invalid image data")
)

// BuildPrompt arma el texto por candidato: imagen nueva truncada + nombre y descripción.
func BuildPrompt(image string, candidate lostpets.LostPet) string {
	return fmt.Sprintf("Imagen avistada: %s\nMascota perdida: %s - %s",
		truncate(image, imageSnippetLen), candidate.Name, candidate.Description)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// No cortar a mitad de una runa.
	cut := n
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	return s[:cut]
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// ParseConfidence toma el primer token numérico de la respuesta.
// Vacío, no numérico, NaN o fuera de [0,1] es error.
func ParseConfidence(reply string) (float64, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return 0, ErrEmptyReply
	}
	tok := strings.Fields(reply)[0]
	tok = strings.TrimRight(tok, ".,;")

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("parse oracle reply %q: %w", reply, err)
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, ErrScoreRange
	}
	return v, nil
}

// DecodeImage separa la imagen recibida en bytes (data URL base64) o URL remota.
// Cualquier otra cosa se manda solo como texto.
func DecodeImage(image string) (data []byte, mime string, url string, err error) {
	image = strings.TrimSpace(image)
	switch {
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return nil, "", image, nil
	case strings.HasPrefix(image, "data:"):
		header, payload, ok := strings.Cut(image, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", "", ErrInvalidImage
		}
		mime = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		if mime == "" {
			mime = "image/jpeg"
		}
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		return data, mime, "", nil
	default:
		return nil, "", "", nil
	}
}
