package valueobjects

import (
	"regexp"
	"strings"

	apperrors "paywatch/internal/shared_kernel/errors"

	"golang.org/x/crypto/sha3"
)

var (
	btcBase58Pattern = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	btcBech32Pattern = regexp.MustCompile(`^bc1[a-z0-9]{39,87}$`)
	ethHexPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	xmrBase58Pattern = regexp.MustCompile(`^[48][1-9A-HJ-NP-Za-km-z]{94}$|^4[1-9A-HJ-NP-Za-km-z]{105}$`)
)

func IsValidAddress(currency Currency, address string) bool {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return false
	}

	switch currency {
	case CurrencyBTC:
		return btcBase58Pattern.MatchString(trimmed) || btcBech32Pattern.MatchString(trimmed)
	case CurrencyETH:
		return ethHexPattern.MatchString(trimmed)
	case CurrencyXMR:
		return xmrBase58Pattern.MatchString(trimmed)
	default:
		return false
	}
}

// NormalizeETHAddress lower-cases the hex body and re-adds the 0x prefix.
// This is not EIP-55 verification; use ToEIP55Checksum for display forms.
func NormalizeETHAddress(address string) (string, *apperrors.AppError) {
	trimmed := strings.TrimSpace(address)
	if !ethHexPattern.MatchString(trimmed) {
		return "", apperrors.NewValidation(
			"address_invalid",
			"ethereum address is invalid",
			map[string]any{"address": address},
		)
	}

	return "0x" + strings.ToLower(strings.TrimPrefix(trimmed, "0x")), nil
}

func ToEIP55Checksum(address string) (string, *apperrors.AppError) {
	normalized, appErr := NormalizeETHAddress(address)
	if appErr != nil {
		return "", appErr
	}

	hexPart := strings.TrimPrefix(normalized, "0x")
	hash := sha3.NewLegacyKeccak256()
	if _, err := hash.Write([]byte(hexPart)); err != nil {
		return "", apperrors.NewInternal(
			"address_checksum_hash_failed",
			"failed to hash address for checksum",
			map[string]any{"error": err.Error()},
		)
	}
	checksumBytes := hash.Sum(nil)

	out := make([]byte, len(hexPart))
	for i := 0; i < len(hexPart); i++ {
		ch := hexPart[i]
		if ch >= '0' && ch <= '9' {
			out[i] = ch
			continue
		}

		var nibble byte
		if i%2 == 0 {
			nibble = (checksumBytes[i/2] >> 4) & 0x0f
		} else {
			nibble = checksumBytes[i/2] & 0x0f
		}

		if nibble >= 8 {
			out[i] = ch - ('a' - 'A')
		} else {
			out[i] = ch
		}
	}

	return "0x" + string(out), nil
}

func FormatAddressForResponse(currency Currency, address string) (string, *apperrors.AppError) {
	if currency == CurrencyETH {
		return ToEIP55Checksum(address)
	}
	return address, nil
}
