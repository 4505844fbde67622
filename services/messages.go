// Package services: services/messages.go
package services

import (
	"errors"
	"fmt"

	"go-ref-assist/models"
)

// Rule references attached to every simulated analysis.
const (
	RuleReferenceEN = "Law 12 - Fouls and Misconduct"
	RuleReferenceAR = "المادة 12 - الأخطاء وسوء السلوك"
)

// VideoEvidencePlaceholder stands in for a clip reference.
const VideoEvidencePlaceholder = "video-evidence-url"

type localized struct{ ar, en string }

func (l localized) in(lang models.Language) string {
	if lang == models.LangEnglish {
		return l.en
	}
	return l.ar
}

var (
	titleAlert            = localized{"تنبيه", "Alert"}
	titleWarning          = localized{"تنبيه", "Warning"}
	titleError            = localized{"خطأ", "Error"}
	titlePlayerRecognized = localized{"تم التعرف على اللاعب", "Player Recognized"}
	titleCardIssued       = localized{"تم إشهار البطاقة", "Card Issued"}

	msgCameraFirst      = localized{"يجب تفعيل الكاميرا أولاً", "Camera must be activated first"}
	msgRecognizeFirst   = localized{"يرجى التعرف على اللاعب أولاً", "Please recognize a player first"}
	msgScanInProgress   = localized{"عملية التعرف جارية بالفعل", "Recognition is already in progress"}
	msgChooseCard       = localized{"يرجى اختيار بطاقة صفراء أو حمراء", "Please choose a yellow or red card"}
	msgBadLanguage      = localized{"اللغة غير مدعومة", "Unsupported language"}
	msgPermission       = localized{"تم رفض الوصول إلى الكاميرا", "Camera access was denied"}
	msgDevice           = localized{"الكاميرا غير متوفرة", "No camera device is available"}
	msgIncidentRecorded = localized{"تم تسجيل الحالة بنجاح", "Incident recorded successfully"}
	msgUnexpected       = localized{"حدث خطأ غير متوقع", "An unexpected error occurred"}

	cardNames = map[models.CardType]localized{
		models.CardYellow: {"الصفراء", "Yellow"},
		models.CardRed:    {"الحمراء", "Red"},
	}
)

// RuleReference returns the rule cited in the given language.
func RuleReference(lang models.Language) string {
	return localized{RuleReferenceAR, RuleReferenceEN}.in(lang)
}

// AnalysisText renders the simulated VAR verdict. Confidence is shown as a
// percentage with one decimal.
func AnalysisText(lang models.Language, card models.CardType, confidence float64) string {
	rule := RuleReference(lang)
	name := cardNames[card].in(lang)
	if lang == models.LangEnglish {
		return fmt.Sprintf("Incident analyzed with %.1f%% confidence: Violation warranting a %s card according to %s",
			confidence*100, name, rule)
	}
	return fmt.Sprintf("تم تحليل الحالة بنسبة ثقة %.1f%%: مخالفة مستحقة للبطاقة %s وفقاً لقوانين اللعبة %s",
		confidence*100, name, rule)
}

// PlayerLabel formats a player as "name - #number (team)".
func PlayerLabel(p models.Player) string {
	return fmt.Sprintf("%s - #%d (%s)", p.Name, p.JerseyNumber, p.Team)
}

// PlayerRecognizedNotice is shown when a scan resolves.
func PlayerRecognizedNotice(lang models.Language, p models.Player) models.Notice {
	return models.Notice{
		Level:   models.NoticeInfo,
		Title:   titlePlayerRecognized.in(lang),
		Message: PlayerLabel(p),
	}
}

// CardIssuedNotice is shown after an incident is recorded.
func CardIssuedNotice(lang models.Language) models.Notice {
	return models.Notice{
		Level:   models.NoticeInfo,
		Title:   titleCardIssued.in(lang),
		Message: msgIncidentRecorded.in(lang),
	}
}

// NoticeFor maps an operation error to the notice shown to the operator.
func NoticeFor(err error, lang models.Language) models.Notice {
	n := models.Notice{Level: models.NoticeDestructive}
	switch {
	case errors.Is(err, ErrCameraInactive):
		n.Title, n.Message = titleAlert.in(lang), msgCameraFirst.in(lang)
	case errors.Is(err, ErrNoPlayerRecognized):
		n.Title, n.Message = titleWarning.in(lang), msgRecognizeFirst.in(lang)
	case errors.Is(err, ErrRecognitionInProgress):
		n.Title, n.Message = titleAlert.in(lang), msgScanInProgress.in(lang)
	case errors.Is(err, ErrInvalidCardType):
		n.Title, n.Message = titleWarning.in(lang), msgChooseCard.in(lang)
	case errors.Is(err, ErrInvalidLanguage):
		n.Title, n.Message = titleWarning.in(lang), msgBadLanguage.in(lang)
	case errors.Is(err, ErrPermissionDenied):
		n.Title, n.Message = titleError.in(lang), msgPermission.in(lang)
	case errors.Is(err, ErrDeviceUnavailable):
		n.Title, n.Message = titleError.in(lang), msgDevice.in(lang)
	case errors.Is(err, ErrPreconditionNotMet):
		n.Title, n.Message = titleWarning.in(lang), err.Error()
	default:
		n.Title, n.Message = titleError.in(lang), msgUnexpected.in(lang)
	}
	return n
}

// ReportSummary is the one-line match summary at the top of the final report.
func ReportSummary(lang models.Language, m models.Match, yellow, red int) string {
	if lang == models.LangEnglish {
		return fmt.Sprintf("%s %d - %d %s at %s (%s): %d incidents, %d yellow cards, %d red cards",
			m.HomeTeam.Name, m.Score.HomeScore, m.Score.AwayScore, m.AwayTeam.Name,
			m.Venue, m.Competition, yellow+red, yellow, red)
	}
	return fmt.Sprintf("%s %d - %d %s في %s (%s): %d حالات، %d بطاقات صفراء، %d بطاقات حمراء",
		m.HomeTeam.Name, m.Score.HomeScore, m.Score.AwayScore, m.AwayTeam.Name,
		m.Venue, m.Competition, yellow+red, yellow, red)
}
