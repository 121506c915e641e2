package constant

// User-facing replies. The bot speaks Russian; HTML parse mode is used only
// for generated posts.

const (
	MsgAccessDenied = "Добрый день. Это частный бот, который умеет генерировать карусели и инфографику для соцсетей. " +
		"Если хотите воспользоваться его функциями, обратитесь сюда: @Iurii_Durov"

	MsgStart = "👋 Привет! Я бот для создания Instagram-каруселей и инфографики.\n\n" +
		"Выберите режим работы:"

	MsgHelp = "📖 Как пользоваться ботом:\n\n" +
		"1️⃣ Отправь текст с темой карусели.\n" +
		"   Например: «Почему перфекционисты склонны к тревожности»\n\n" +
		"2️⃣ Бот попросит прислать изображение для первого слайда.\n" +
		"   📸 Отправь фотографию, которую хочешь использовать.\n\n" +
		"3️⃣ Бот попросит указать количество слайдов.\n" +
		"   🔢 Напиши число от 2 до 20 (например: 5, 8, 10)\n\n" +
		"4️⃣ Бот сгенерирует структуру и тексты.\n\n" +
		"5️⃣ Затем бот создаст визуальные слайды.\n\n" +
		"⏱ Процесс может занять 3-5 минут.\n\n" +
		"💡 Слайды будут приходить по мере готовности."

	MsgModeCarousel = "📊 Выбран режим: Карусель\n\n" +
		"📝 Отправьте тему, и я сгенерирую для вас карусель с текстом и визуалом.\n\n" +
		"📸 После отправки темы бот попросит:\n" +
		"   1. Прислать изображение для первого слайда\n" +
		"   2. Указать количество слайдов (от 2 до 20)"

	MsgModeInfographic = "📈 Выбран режим: Инфографика\n\n" +
		"📝 Отправьте тему, и я сгенерирую для вас инфографику по этой теме."

	MsgModePost = "📝 Режим: Написание поста\n\n" +
		"📝 Отправьте тему поста, и я создам для вас готовый пост для соцсетей."

	MsgBackgroundMissing = "⚠️ Бот не настроен: отсутствует фоновое изображение.\n\n" +
		"Пожалуйста, выполните команду /upload_backgrounds для загрузки фона.\n" +
		"Или попросите администратора настроить бота."

	MsgBusy = "⏳ Вы уже запустили генерацию. Пожалуйста, дождитесь завершения."

	MsgTopicAcceptedFmt = "✅ Принято! Тема: «%s»\n\n" +
		"📸 Пришлите изображение, которое будем использовать в первом слайде."

	MsgSendPhotoFirst = "❌ Сначала отправьте тему карусели текстом."

	MsgAwaitingPhoto = "📸 Жду изображение для первого слайда. Пришлите фотографию."

	MsgPhotoAccepted = "✅ Изображение получено!\n\n" +
		"🔢 Укажите, какое количество слайдов для карусели вы хотите получить.\n" +
		"(Например: 5, 8, 10)"

	MsgPhotoFailed = "❌ Ошибка при обработке изображения. Попробуйте отправить изображение еще раз."

	MsgSlideCountOutOfRange = "❌ Количество слайдов должно быть от 2 до 20.\n" +
		"Пожалуйста, укажите корректное число."

	MsgSlideCountNotANumber = "❌ Пожалуйста, укажите число (например: 5, 8, 10)."

	MsgSlideCountAcceptedFmt = "✅ Принято! Количество слайдов: %d\n\n" +
		"⏳ Отправляю запрос на генерацию..."

	MsgEmptyTopic = "Пожалуйста, отправьте тему."

	MsgAnswerYesNo = "Пожалуйста, ответьте «да» или «нет»."

	MsgStructureReady = "Структура готова! Начинаю генерацию слайдов (это может занять время)..."

	MsgStructureFailed = "Ошибка генерации текста. Попробуйте другую тему."

	MsgNoSlides = "Ошибка структуры данных (нет слайдов)."

	MsgSlideFailedFmt = "⚠️ Не удалось сгенерировать слайд %d."

	MsgSlideCaptionFmt = "Слайд %d"

	MsgCarouselDone = "✅ Генерация карусели завершена!"

	MsgOfferRegenerateSlide = "🔄 Хотите перегенерировать какой-нибудь слайд?\n\n" +
		"Ответьте «да» или «нет»."

	MsgOfferRegenerateAgain = "🔄 Хотите перегенерировать ещё раз?\n\n" +
		"Ответьте «да» или «нет»."

	MsgAskSlideNumberFmt = "🔢 Укажите номер слайда для перегенерации (от 1 до %d)."

	MsgSlideNumberOutOfRangeFmt = "❌ Номер слайда должен быть от 1 до %d."

	MsgExternalEditFmt = "✏️ Отредактируйте промпт в таблице (запись %s), затем отправьте «+» для перегенерации."

	MsgInlineEditRequest = "✏️ Отправьте новый промпт для перегенерации."

	MsgPlusToConfirm = "Отправьте «+», когда промпт в таблице будет отредактирован."

	MsgPromptMissing = "⚠️ Не удалось прочитать промпт из таблицы. Отправьте новый промпт текстом."

	MsgOfferInfographic = "📊 Хотите получить дополнительную инфографику по этой теме?\n\n" +
		"Ответьте «да» или «нет»."

	MsgInfographicAccepted = "📊 Отлично! Генерирую инфографику..."

	MsgInfographicStructure = "⏳ Генерирую структуру инфографики..."

	MsgInfographicRendering = "⏳ Генерирую инфографику..."

	MsgInfographicCaption = "📊 Инфографика"

	MsgInfographicDone = "✅ Инфографика готова!"

	MsgInfographicFailed = "⚠️ Не удалось сгенерировать инфографику."

	MsgInfographicDeclined = "Хорошо! Если понадобится инфографика, просто напишите тему снова."

	MsgOfferPost = "📝 Хотите получить пост для соцсетей на основе этой карусели?\n\n" +
		"Ответьте «да» или «нет»."

	MsgPostAccepted = "📝 Отлично! Генерирую пост..."

	MsgPostRendering = "⏳ Генерирую пост..."

	MsgPostDone = "✅ Пост готов!"

	MsgPostFailed = "⚠️ Не удалось сгенерировать пост. Попробуйте позже."

	MsgPostDeclined = "Хорошо! Если понадобится пост, просто напишите тему снова."

	MsgGenerationError = "Произошел технический сбой. Попробуйте позже."

	MsgFileTooLarge = "Файл слишком большой для отправки."

	MsgImageDeliveryFailedFmt = "Ошибка отправки файла слайда %d."

	MsgBackgroundUploading = "Загружаю фоновое изображение..."

	MsgBackgroundUpdatedFmt = "✅ Фоновое изображение обновлено и сохранено!\nURL: %.50s..."

	MsgBackgroundUploadFailed = "Ошибка при загрузке изображения."

	MsgBackgroundFileMissing = "Ошибка: файл фонового изображения не найден на сервере."

	MsgBackgroundReady = "Готово! Теперь можешь отправлять темы для генерации каруселей.\n\n" +
		"📸 Для каждой генерации бот будет запрашивать изображение для первого слайда."
)

// Main keyboard button labels. Bare variants without the emoji prefix are
// accepted too.
const (
	ButtonCarousel        = "📊 Карусель"
	ButtonCarouselBare    = "Карусель"
	ButtonInfographic     = "📈 Инфографика"
	ButtonInfographicBare = "Инфографика"
	ButtonPost            = "📝 Написать пост"
	ButtonPostBare        = "Написать пост"
)

// Yes/no vocabulary, matched case-insensitively after trimming.
var (
	AffirmativeAnswers = []string{"да", "yes", "y", "ок", "ok", "хочу", "создай"}
	NegativeAnswers    = []string{"нет", "no", "n", "не хочу", "не надо"}
)

// The literal token confirming an external prompt edit.
const ExternalEditToken = "+"
