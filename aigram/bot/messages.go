package bot

import (
	"fmt"
	"strings"
)

// user-facing strings, kept short and free of internal detail
const (
	msgJoinPrompt       = "Iltimos, quyidagi kanallarga obuna bo‘ling:"
	msgVerifyButton     = "✅ Tasdiqlash"
	msgNotSubscribedYet = "Hali barcha kanallarga obuna bo‘lmadingiz."
	msgSubscribed       = "Tasdiqlandi! Endi botdan foydalanishingiz mumkin."
	msgEnterPromo       = "Promo kodni kiriting:"
	msgPromoInvalid     = "Noto‘g‘ri yoki ishlatilgan promo kod."
	msgPromoActivated   = "Premium faollashtirildi!"
	msgGenerationFailed = "Rasm yaratishda xato yuz berdi."
	msgTryLater         = "Xatolik yuz berdi, keyinroq urinib ko‘ring."
	msgAdminOnly        = "Faqat admin uchun."
)

// admin menu button labels; incoming admin texts are matched against these
const (
	btnStats         = "📈 Statistika"
	btnBroadcast     = "📢 Reklama"
	btnChannelAdd    = "➕ Kanal qo‘shish"
	btnChannelRemove = "➖ Kanal o‘chirish"
	btnChannelList   = "📜 Kanal ro‘yxati"
	btnPromoCreate   = "🎁 Promo kod yaratish"
	btnPremiumGrant  = "⭐ Premium berish"
	btnPremiumRevoke = "🚫 Premium bekor qilish"
)

func welcomeMessage(dailyLimit int) string {
	return fmt.Sprintf(
		"Salom! Men AI botman.\n"+
			"Matn yuboring, men rasm yarataman.\n"+
			"Kuniga %d ta bepul rasm.\n"+
			"Premium uchun promo koddan foydalaning.",
		dailyLimit,
	)
}

func quotaExceededMessage(dailyLimit int) string {
	return fmt.Sprintf("Kunlik %d ta limit tugadi. Promo kod orqali premium oling.", dailyLimit)
}

func joinPromptText(channels []string) string {
	return msgJoinPrompt + "\n" + strings.Join(channels, "\n")
}

func captionFor(prompt string) string {
	return "AI natija: " + prompt
}
