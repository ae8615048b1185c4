package handshake

import "github.com/Bhanditz/tlsclient/tlserr"

// AlertLevel is an alert record's first byte.
type AlertLevel uint8

const (
	AlertLevelWarning AlertLevel = 1
	AlertLevelFatal   AlertLevel = 2
)

// IsValidAlertLevel reports whether level is warning or fatal. Per
// spec.md's design notes, a level that passes this check is not consulted
// afterward: a warning-level alert maps to the same error as a fatal one —
// see DESIGN.md for why warning and fatal alerts aren't distinguished,
// matching the original implementation.
func IsValidAlertLevel(level uint8) bool {
	switch AlertLevel(level) {
	case AlertLevelWarning, AlertLevelFatal:
		return true
	default:
		return false
	}
}

// AlertType is an alert record's second byte.
type AlertType uint8

const (
	AlertCloseNotify            AlertType = 0
	AlertUnexpectedMessage      AlertType = 10
	AlertBadRecordMAC           AlertType = 20
	AlertDecryptionFailed       AlertType = 21
	AlertRecordOverflow         AlertType = 22
	AlertDecompressionFailure   AlertType = 30
	AlertHandshakeFailure       AlertType = 40
	AlertNoCertificate          AlertType = 41
	AlertBadCertificate         AlertType = 42
	AlertUnsupportedCertificate AlertType = 43
	AlertCertificateRevoked     AlertType = 44
	AlertCertificateExpired     AlertType = 45
	AlertCertificateUnknown     AlertType = 46
	AlertIllegalParameter       AlertType = 47
	AlertUnknownCA              AlertType = 48
	AlertAccessDenied           AlertType = 49
	AlertDecodeError            AlertType = 50
	AlertDecryptError           AlertType = 51
	AlertExportRestriction      AlertType = 60
	AlertProtocolVersion        AlertType = 70
	AlertInsufficientSecurity   AlertType = 71
	AlertInternalError          AlertType = 80
	AlertUserCanceled           AlertType = 90
	AlertNoRenegotiation        AlertType = 100
	AlertUnsupportedExtension   AlertType = 110
)

// AlertTypeToResult maps a peer-sent alert code to the error this module
// surfaces for it, so a caller sees the same tlserr.Kind whether the
// failure was local or reported by the peer. Alerts this catalog doesn't
// recognize map to UnknownFatalAlert, mirroring the original
// implementation's default case.
func AlertTypeToResult(t AlertType) error {
	switch t {
	case AlertCloseNotify:
		return tlserr.New(tlserr.AlertCloseNotify)
	case AlertUnexpectedMessage:
		return tlserr.New(tlserr.AlertUnexpectedMessage)
	case AlertBadRecordMAC:
		return tlserr.New(tlserr.AlertBadRecordMAC)
	case AlertDecryptionFailed:
		return tlserr.New(tlserr.AlertDecryptionFailed)
	case AlertRecordOverflow:
		return tlserr.New(tlserr.AlertRecordOverflow)
	case AlertDecompressionFailure:
		return tlserr.New(tlserr.AlertDecompressionFailure)
	case AlertHandshakeFailure:
		return tlserr.New(tlserr.AlertHandshakeFailure)
	case AlertNoCertificate:
		return tlserr.New(tlserr.AlertNoCertificate)
	case AlertBadCertificate:
		return tlserr.New(tlserr.AlertBadCertificate)
	case AlertUnsupportedCertificate:
		return tlserr.New(tlserr.AlertUnsupportedCertificate)
	case AlertCertificateRevoked:
		return tlserr.New(tlserr.AlertCertificateRevoked)
	case AlertCertificateExpired:
		return tlserr.New(tlserr.AlertCertificateExpired)
	case AlertCertificateUnknown:
		return tlserr.New(tlserr.AlertCertificateUnknown)
	case AlertIllegalParameter:
		return tlserr.New(tlserr.AlertIllegalParameter)
	case AlertUnknownCA:
		return tlserr.New(tlserr.AlertUnknownCA)
	case AlertAccessDenied:
		return tlserr.New(tlserr.AlertAccessDenied)
	case AlertDecodeError:
		return tlserr.New(tlserr.AlertDecodeError)
	case AlertDecryptError:
		return tlserr.New(tlserr.AlertDecryptError)
	case AlertExportRestriction:
		return tlserr.New(tlserr.AlertExportRestriction)
	case AlertProtocolVersion:
		return tlserr.New(tlserr.AlertProtocolVersion)
	case AlertInsufficientSecurity:
		return tlserr.New(tlserr.AlertInsufficientSecurity)
	case AlertInternalError:
		return tlserr.New(tlserr.AlertInternalError)
	case AlertUserCanceled:
		return tlserr.New(tlserr.AlertUserCanceled)
	case AlertNoRenegotiation:
		return tlserr.New(tlserr.AlertNoRenegotiation)
	case AlertUnsupportedExtension:
		return tlserr.New(tlserr.AlertUnsupportedExtension)
	default:
		return tlserr.New(tlserr.UnknownFatalAlert)
	}
}
