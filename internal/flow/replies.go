package flow

import (
	"fmt"

	"github.com/safestay/shelter-bot/internal/models"
)

// Choice is one button offered alongside a reply.
type Choice struct {
	Label string
	Data  string
}

// Reply is a single outbound message with an optional keyboard.
type Reply struct {
	Text    string
	Choices [][]Choice
}

// User-facing copy, kept verbatim from the production bot.
const (
	msgIntro = "🏡 *מחפשים מקום בטוח? רוצים לעזור למישהו שצריך?* 🤝\n\n" +
		"הבוט הזה נועד *לחבר בין אנשים שנפגע להם הבית, שאין להם ממ\"ד או מקלט, או שפשוט רוצים להיות עם אחרים ולהרגיש בטוחים* – " +
		"לבין אנשים טובי לב שרוצים לפתוח את הלב ואת הבית. 💗\n\n" +
		"✨ כאן תוכלו:\n" +
		"• 📤 *לפרסם מודעת אירוח*\n" +
		"• 📋 *לצפות בכל המודעות*\n" +
		"• 🔎 *לסנן לפי אזור*\n" +
		"• ✏️ *לערוך או למחוק מודעות*\n" +
		"• 🚩 *לדווח על מודעות לא הולמות*\n\n" +
		"🛑 *חשוב לדעת:* אנא הימנעו משיתוף מידע אישי רגיש (כמו כתובת מלאה או תעודת זהות). הבוט הוא רק פלטפורמת תיווך – " +
		"*האחריות על ההתקשרות היא עליכם בלבד.*\n\n" +
		"🙏 תודה שאתם כאן. כל עזרה קטנה יכולה לשנות למישהו את היום 💙\n" +
		"יחד ננצח – 💪 *עם אחד, לב אחד.* 🇮🇱"

	msgChooseAction    = "בחר/י פעולה:"
	msgAskName         = "📋 בוא/י ניצור מודעה חדשה. איך קוראים לך?"
	msgInvalidName     = "❗ השם צריך להכיל אותיות בלבד."
	msgAskPhone        = "📞 מה מספר הטלפון שלך?"
	msgInvalidPhone    = "❗ מספר טלפון לא חוקי. הזן 7–15 ספרות בלבד."
	msgAskArea         = "📍 בחר אזור:"
	msgAskCity         = "🏘️ מה שם העיר שלך?"
	msgInvalidCity     = "❗ שם העיר צריך להכיל אותיות בלבד."
	msgAskCapacity     = "👥 כמה אנשים את/ה יכול/ה לארח? (1–100)"
	msgInvalidCapacity = "❗ הזן מספר בין 1 ל-100."
	msgAskDate         = "📅 מאיזה תאריך את/ה לארח? (פורמט התשובה YYYY-MM-DD, לדוגמא 2025-12-25)"
	msgInvalidDate     = "❗ תאריך לא חוקי.פורמט התשובה YYYY-MM-DD, לדוגמא 2025-12-25"
	msgAdPublished     = "✅ המודעה פורסמה בהצלחה!"
	msgAskEditField    = "🔧 מה ברצונך לערוך?"
	msgAskEditArea     = "📍 בחר/י אזור חדש:"
	msgAskEditValue    = "✏️ הזן/י ערך חדש:"
	msgAdUpdated       = "✅ המודעה עודכנה בהצלחה."
	msgNoEditTarget    = "⚠️ שגיאה: לא נמצאה מודעה לעריכה."
)

// Messages the transport adapter sends outside the state machine.
const (
	MsgAdDeleted       = "✅ המודעה נמחקה."
	MsgAdNotOwned      = "⚠️ המודעה לא נמצאה או שאינה שלך."
	MsgBackToMenu      = "⬅️ חזור לתפריט הראשי:"
	MsgNoAds           = "📭 אין מודעות להצגה כרגע."
	MsgNoMyAds         = "📭 אין לך מודעות כרגע."
	MsgChooseArea      = "📍 בחר אזור להצגת מודעות:"
	MsgAlreadyReported = "⚠️ כבר דיווחת על מודעה זו."
	MsgReportRecorded  = "✅ תודה! הדיווח התקבל ונבדוק את המודעה בהקדם."
	MsgReportDeleted   = "🚫 המודעה נמחקה אוטומטית לאחר שקיבלה 3 דיווחים."
	MsgReportNotFound  = "⚠️ המודעה כבר לא קיימת."
	MsgGenericError    = "❌ קרתה שגיאה. נסה שוב מאוחר יותר."
)

// NoAdsInAreaText is the empty-state message for an area filter.
func NoAdsInAreaText(area models.Area) string {
	return fmt.Sprintf("📭 אין מודעות זמינות באזור %s.", area)
}

var areaLabels = map[models.Area]string{
	models.AreaNorth:  "🌍 צפון",
	models.AreaCenter: "🏙️ מרכז",
	models.AreaSouth:  "🏜️ דרום",
	models.AreaOther:  "❓ אחר",
}

var fieldLabels = map[models.Field]string{
	models.FieldName:     "👤 שם",
	models.FieldPhone:    "📞 טלפון",
	models.FieldArea:     "🌍 אזור",
	models.FieldCity:     "🏘️ עיר",
	models.FieldCapacity: "👥 מספר אורחים",
	models.FieldDate:     "📅 תאריך",
}

func textReply(text string) Reply {
	return Reply{Text: text}
}

// MenuKeyboard is the main menu offered by /start and main_menu.
func MenuKeyboard() [][]Choice {
	return [][]Choice{
		{{Label: "📤 פרסום מודעה", Data: payloadPostAd}},
		{{Label: "📋 הצגת המודעות שלי", Data: payloadMyAds}},
		{{Label: "🌍 כל המודעות", Data: payloadAllAds}},
		{{Label: "🔎 חיפוש לפי אזור", Data: payloadSearchByArea}},
	}
}

// BackToMenuRow is appended after every listing dump.
func BackToMenuRow() [][]Choice {
	return [][]Choice{{{Label: "🔙 חזרה לתפריט", Data: payloadMainMenu}}}
}

// AreaKeyboard offers the creation-flow area choices.
func AreaKeyboard() [][]Choice {
	return [][]Choice{
		{areaChoice(models.AreaNorth, prefixArea), areaChoice(models.AreaCenter, prefixArea)},
		{areaChoice(models.AreaSouth, prefixArea)},
		{areaChoice(models.AreaOther, prefixArea)},
	}
}

// searchAreaKeyboard offers one row of searchable areas with the given
// payload prefix (area_filter: for browsing, value: for editing).
func searchAreaKeyboard(prefix string) [][]Choice {
	row := make([]Choice, 0, len(models.SearchAreas))
	for _, area := range models.SearchAreas {
		row = append(row, areaChoice(area, prefix))
	}
	return [][]Choice{row}
}

// FilterAreaKeyboard offers the browse-by-area choices.
func FilterAreaKeyboard() [][]Choice {
	return searchAreaKeyboard(prefixAreaFilter)
}

func areaChoice(area models.Area, prefix string) Choice {
	return Choice{Label: areaLabels[area], Data: prefix + string(area)}
}

// FieldKeyboard offers the editable fields, two per row.
func FieldKeyboard() [][]Choice {
	var rows [][]Choice
	var row []Choice
	for _, field := range models.EditableFields {
		row = append(row, Choice{Label: fieldLabels[field], Data: prefixField + string(field)})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// AdButtonsOwner offers edit and delete for the owner's own ad.
func AdButtonsOwner(adID int64) [][]Choice {
	return [][]Choice{{
		{Label: "📝 ערוך", Data: fmt.Sprintf("%s%d", prefixEdit, adID)},
		{Label: "🗑️ מחק", Data: fmt.Sprintf("%s%d", prefixDelete, adID)},
	}}
}

// AdButtonsReport offers the report button shown on other users' ads.
func AdButtonsReport(adID int64) [][]Choice {
	return [][]Choice{{
		{Label: "🚩 דווח", Data: fmt.Sprintf("%s%d", prefixReport, adID)},
	}}
}

// RenderAd formats one ad for display.
func RenderAd(ad *models.Ad) string {
	return fmt.Sprintf(
		"👤 שם: %s\n📞 טלפון: %s\n📍 אזור: %s\n🏘️ עיר: %s\n👥 מספר אורחים: %d\n📅 תאריך: %s",
		ad.Name, ad.Phone, ad.Area, ad.City, ad.Capacity, ad.DateAvailable,
	)
}

// Intro returns the welcome text and the action-menu message.
func Intro() []Reply {
	return []Reply{
		textReply(msgIntro),
		{Text: msgChooseAction, Choices: MenuKeyboard()},
	}
}
