package groupadmin

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"vorozheya.ru/telegram-bot/internal/common"
)

// Сколько живёт код подтверждения затвора.
const shutdownCodeTTL = 10 * time.Minute

// ShutdownGuard выдаёт одноразовый код подтверждения остановки бота.
// В памяти держится только Argon2id-хеш кода, не сам код.
type ShutdownGuard struct {
	fixedCode string // из конфига; если пуст, код генерируется

	mu        sync.Mutex
	codeHash  string
	expiresAt time.Time
}

// NewShutdownGuard создаёт страж затвора. fixedCode может быть пустым.
func NewShutdownGuard(fixedCode string) *ShutdownGuard {
	return &ShutdownGuard{fixedCode: fixedCode}
}

// Arm взводит затвор: возвращает код, который нужно ввести
// в течение десяти минут.
func (g *ShutdownGuard) Arm() (string, error) {
	code := g.fixedCode
	if code == "" {
		b := make([]byte, 4)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("сгенерировать код: %w", err)
		}
		code = hex.EncodeToString(b)
	}

	hash, err := hashArgon2id(code)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	g.codeHash = hash
	g.expiresAt = time.Now().Add(shutdownCodeTTL)
	g.mu.Unlock()

	return code, nil
}

// Confirm проверяет введённый код. Удачная проверка разряжает затвор.
func (g *ShutdownGuard) Confirm(code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.codeHash == "" || time.Now().After(g.expiresAt) {
		g.codeHash = ""
		return common.ErrWrongCode
	}
	if !verifyArgon2id(code, g.codeHash) {
		return common.ErrWrongCode
	}

	g.codeHash = ""
	return nil
}

// --- Криптографические утилиты ---

// hashArgon2id хеширует код со случайной солью.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func hashArgon2id(code string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("сгенерировать соль: %w", err)
	}

	var (
		memory      uint32 = 65536 // 64 MB
		iterations  uint32 = 3
		parallelism uint8  = 2
		keyLength   uint32 = 32
	)
	hash := argon2.IDKey([]byte(code), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// verifyArgon2id проверяет код по хешу Argon2id.
func verifyArgon2id(code, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(code), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
