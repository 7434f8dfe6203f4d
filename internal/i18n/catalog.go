package i18n

// Message keys.
const (
	KeyWelcome               Key = "welcome"
	KeyHelp                  Key = "help"
	KeyUnknownCommand        Key = "unknown_command"
	KeyError                 Key = "error"
	KeyPricesHeader          Key = "prices_header"
	KeyPricesEmpty           Key = "prices_empty"
	KeyPriceUnavailable      Key = "price_unavailable"
	KeyPriceUsage            Key = "price_usage"
	KeyUnknownSymbol         Key = "unknown_symbol"
	KeySearchUsage           Key = "search_usage"
	KeySearchHeader          Key = "search_header"
	KeySearchNone            Key = "search_none"
	KeySearchFailed          Key = "search_failed"
	KeyReferralLink          Key = "referral_link"
	KeyReferralStats         Key = "referral_stats"
	KeyReferralApplied       Key = "referral_applied"
	KeyRejectInvalidCode     Key = "reject_invalid_code"
	KeyRejectAlreadyReferred Key = "reject_already_referred"
	KeyRejectSelfReferral    Key = "reject_self_referral"
	KeyRejectCycle           Key = "reject_cycle"
	KeyTreeHeader            Key = "tree_header"
	KeyTreeEmpty             Key = "tree_empty"
	KeyLeaderboardHeader     Key = "leaderboard_header"
	KeyLeaderboardEmpty      Key = "leaderboard_empty"
	KeyLanguageSet           Key = "language_set"
	KeyLanguageUsage         Key = "language_usage"
)

var messages = map[string]map[Key]string{
	"en": {
		KeyWelcome:               "Welcome to PolyFocus, %s!\nUse /help to see what I can do.",
		KeyHelp:                  "Commands:\n/prices - live crypto prices\n/price SYMBOL - one price\n/search TEXT - search prediction markets\n/referral - your referral link and earnings\n/tree - your referral tree\n/leaderboard - top referrers\n/language CODE - change language",
		KeyUnknownCommand:        "Unknown command. Use /help.",
		KeyError:                 "Something went wrong. Please try again later.",
		KeyPricesHeader:          "Live prices:",
		KeyPricesEmpty:           "Prices are not available yet. Try again shortly.",
		KeyPriceUnavailable:      "%s: unavailable",
		KeyPriceUsage:            "Usage: /price SYMBOL",
		KeyUnknownSymbol:         "Unknown symbol %s. Tracked: %s",
		KeySearchUsage:           "Usage: /search TEXT",
		KeySearchHeader:          "Markets matching \"%s\":",
		KeySearchNone:            "No markets found for \"%s\".",
		KeySearchFailed:          "Market search is unavailable right now.",
		KeyReferralLink:          "Your referral link:\n%s",
		KeyReferralStats:         "Direct referrals: %d\nTotal referrals: %d\nPaid: %s\nPending: %s",
		KeyReferralApplied:       "You joined through %s's referral link.",
		KeyRejectInvalidCode:     "That referral code is not valid.",
		KeyRejectAlreadyReferred: "You already have a referrer.",
		KeyRejectSelfReferral:    "You cannot use your own referral code.",
		KeyRejectCycle:           "That referral would create a loop.",
		KeyTreeHeader:            "Your referral tree (%d users):",
		KeyTreeEmpty:             "You have not referred anyone yet.",
		KeyLeaderboardHeader:     "Top referrers:",
		KeyLeaderboardEmpty:      "No referrers yet.",
		KeyLanguageSet:           "Language set to %s.",
		KeyLanguageUsage:         "Usage: /language CODE\nAvailable: %s",
	},
	"es": {
		KeyWelcome:               "¡Bienvenido a PolyFocus, %s!\nUsa /help para ver lo que puedo hacer.",
		KeyHelp:                  "Comandos:\n/prices - precios cripto en vivo\n/price SÍMBOLO - un precio\n/search TEXTO - buscar mercados de predicción\n/referral - tu enlace de referido y ganancias\n/tree - tu árbol de referidos\n/leaderboard - mejores referentes\n/language CÓDIGO - cambiar idioma",
		KeyUnknownCommand:        "Comando desconocido. Usa /help.",
		KeyError:                 "Algo salió mal. Inténtalo más tarde.",
		KeyPricesHeader:          "Precios en vivo:",
		KeyPricesEmpty:           "Los precios aún no están disponibles. Inténtalo en breve.",
		KeyPriceUnavailable:      "%s: no disponible",
		KeyPriceUsage:            "Uso: /price SÍMBOLO",
		KeyUnknownSymbol:         "Símbolo desconocido %s. Seguidos: %s",
		KeySearchUsage:           "Uso: /search TEXTO",
		KeySearchHeader:          "Mercados que coinciden con \"%s\":",
		KeySearchNone:            "No se encontraron mercados para \"%s\".",
		KeySearchFailed:          "La búsqueda de mercados no está disponible ahora.",
		KeyReferralLink:          "Tu enlace de referido:\n%s",
		KeyReferralStats:         "Referidos directos: %d\nReferidos totales: %d\nPagado: %s\nPendiente: %s",
		KeyReferralApplied:       "Te uniste con el enlace de referido de %s.",
		KeyRejectInvalidCode:     "Ese código de referido no es válido.",
		KeyRejectAlreadyReferred: "Ya tienes un referente.",
		KeyRejectSelfReferral:    "No puedes usar tu propio código de referido.",
		KeyRejectCycle:           "Ese referido crearía un ciclo.",
		KeyTreeHeader:            "Tu árbol de referidos (%d usuarios):",
		KeyTreeEmpty:             "Aún no has referido a nadie.",
		KeyLeaderboardHeader:     "Mejores referentes:",
		KeyLeaderboardEmpty:      "Aún no hay referentes.",
		KeyLanguageSet:           "Idioma cambiado a %s.",
		KeyLanguageUsage:         "Uso: /language CÓDIGO\nDisponibles: %s",
	},
	"fr": {
		KeyWelcome:               "Bienvenue sur PolyFocus, %s !\nUtilisez /help pour voir ce que je peux faire.",
		KeyHelp:                  "Commandes :\n/prices - prix crypto en direct\n/price SYMBOLE - un prix\n/search TEXTE - rechercher des marchés de prédiction\n/referral - votre lien de parrainage et vos gains\n/tree - votre arbre de parrainage\n/leaderboard - meilleurs parrains\n/language CODE - changer de langue",
		KeyUnknownCommand:        "Commande inconnue. Utilisez /help.",
		KeyError:                 "Une erreur est survenue. Réessayez plus tard.",
		KeyPricesHeader:          "Prix en direct :",
		KeyPricesEmpty:           "Les prix ne sont pas encore disponibles. Réessayez bientôt.",
		KeyPriceUnavailable:      "%s : indisponible",
		KeyPriceUsage:            "Usage : /price SYMBOLE",
		KeyUnknownSymbol:         "Symbole inconnu %s. Suivis : %s",
		KeySearchUsage:           "Usage : /search TEXTE",
		KeySearchHeader:          "Marchés correspondant à « %s » :",
		KeySearchNone:            "Aucun marché trouvé pour « %s ».",
		KeySearchFailed:          "La recherche de marchés est indisponible pour le moment.",
		KeyReferralLink:          "Votre lien de parrainage :\n%s",
		KeyReferralStats:         "Filleuls directs : %d\nFilleuls au total : %d\nPayé : %s\nEn attente : %s",
		KeyReferralApplied:       "Vous avez rejoint via le lien de parrainage de %s.",
		KeyRejectInvalidCode:     "Ce code de parrainage n'est pas valide.",
		KeyRejectAlreadyReferred: "Vous avez déjà un parrain.",
		KeyRejectSelfReferral:    "Vous ne pouvez pas utiliser votre propre code.",
		KeyRejectCycle:           "Ce parrainage créerait une boucle.",
		KeyTreeHeader:            "Votre arbre de parrainage (%d utilisateurs) :",
		KeyTreeEmpty:             "Vous n'avez encore parrainé personne.",
		KeyLeaderboardHeader:     "Meilleurs parrains :",
		KeyLeaderboardEmpty:      "Aucun parrain pour l'instant.",
		KeyLanguageSet:           "Langue définie sur %s.",
		KeyLanguageUsage:         "Usage : /language CODE\nDisponibles : %s",
	},
	"de": {
		KeyWelcome:               "Willkommen bei PolyFocus, %s!\nMit /help siehst du, was ich kann.",
		KeyHelp:                  "Befehle:\n/prices - Krypto-Kurse live\n/price SYMBOL - ein Kurs\n/search TEXT - Prognosemärkte suchen\n/referral - dein Empfehlungslink und Einnahmen\n/tree - dein Empfehlungsbaum\n/leaderboard - Top-Empfehler\n/language CODE - Sprache ändern",
		KeyUnknownCommand:        "Unbekannter Befehl. Nutze /help.",
		KeyError:                 "Etwas ist schiefgelaufen. Bitte versuche es später erneut.",
		KeyPricesHeader:          "Live-Kurse:",
		KeyPricesEmpty:           "Noch keine Kurse verfügbar. Versuche es gleich noch einmal.",
		KeyPriceUnavailable:      "%s: nicht verfügbar",
		KeyPriceUsage:            "Verwendung: /price SYMBOL",
		KeyUnknownSymbol:         "Unbekanntes Symbol %s. Verfolgt: %s",
		KeySearchUsage:           "Verwendung: /search TEXT",
		KeySearchHeader:          "Märkte passend zu \"%s\":",
		KeySearchNone:            "Keine Märkte für \"%s\" gefunden.",
		KeySearchFailed:          "Die Marktsuche ist gerade nicht verfügbar.",
		KeyReferralLink:          "Dein Empfehlungslink:\n%s",
		KeyReferralStats:         "Direkte Empfehlungen: %d\nEmpfehlungen gesamt: %d\nAusgezahlt: %s\nAusstehend: %s",
		KeyReferralApplied:       "Du bist über den Empfehlungslink von %s beigetreten.",
		KeyRejectInvalidCode:     "Dieser Empfehlungscode ist ungültig.",
		KeyRejectAlreadyReferred: "Du hast bereits einen Empfehler.",
		KeyRejectSelfReferral:    "Du kannst deinen eigenen Code nicht verwenden.",
		KeyRejectCycle:           "Diese Empfehlung würde eine Schleife erzeugen.",
		KeyTreeHeader:            "Dein Empfehlungsbaum (%d Nutzer):",
		KeyTreeEmpty:             "Du hast noch niemanden empfohlen.",
		KeyLeaderboardHeader:     "Top-Empfehler:",
		KeyLeaderboardEmpty:      "Noch keine Empfehler.",
		KeyLanguageSet:           "Sprache auf %s gesetzt.",
		KeyLanguageUsage:         "Verwendung: /language CODE\nVerfügbar: %s",
	},
	"it": {
		KeyWelcome:               "Benvenuto su PolyFocus, %s!\nUsa /help per vedere cosa posso fare.",
		KeyHelp:                  "Comandi:\n/prices - prezzi cripto in tempo reale\n/price SIMBOLO - un prezzo\n/search TESTO - cerca mercati di previsione\n/referral - il tuo link di invito e i guadagni\n/tree - il tuo albero di inviti\n/leaderboard - migliori referenti\n/language CODICE - cambia lingua",
		KeyUnknownCommand:        "Comando sconosciuto. Usa /help.",
		KeyError:                 "Qualcosa è andato storto. Riprova più tardi.",
		KeyPricesHeader:          "Prezzi in tempo reale:",
		KeyPricesEmpty:           "I prezzi non sono ancora disponibili. Riprova a breve.",
		KeyPriceUnavailable:      "%s: non disponibile",
		KeyPriceUsage:            "Uso: /price SIMBOLO",
		KeyUnknownSymbol:         "Simbolo sconosciuto %s. Seguiti: %s",
		KeySearchUsage:           "Uso: /search TESTO",
		KeySearchHeader:          "Mercati corrispondenti a \"%s\":",
		KeySearchNone:            "Nessun mercato trovato per \"%s\".",
		KeySearchFailed:          "La ricerca dei mercati non è disponibile ora.",
		KeyReferralLink:          "Il tuo link di invito:\n%s",
		KeyReferralStats:         "Inviti diretti: %d\nInviti totali: %d\nPagato: %s\nIn attesa: %s",
		KeyReferralApplied:       "Ti sei unito con il link di invito di %s.",
		KeyRejectInvalidCode:     "Questo codice di invito non è valido.",
		KeyRejectAlreadyReferred: "Hai già un referente.",
		KeyRejectSelfReferral:    "Non puoi usare il tuo codice di invito.",
		KeyRejectCycle:           "Questo invito creerebbe un ciclo.",
		KeyTreeHeader:            "Il tuo albero di inviti (%d utenti):",
		KeyTreeEmpty:             "Non hai ancora invitato nessuno.",
		KeyLeaderboardHeader:     "Migliori referenti:",
		KeyLeaderboardEmpty:      "Ancora nessun referente.",
		KeyLanguageSet:           "Lingua impostata su %s.",
		KeyLanguageUsage:         "Uso: /language CODICE\nDisponibili: %s",
	},
	"pt": {
		KeyWelcome:               "Bem-vindo ao PolyFocus, %s!\nUse /help para ver o que posso fazer.",
		KeyHelp:                  "Comandos:\n/prices - preços cripto ao vivo\n/price SÍMBOLO - um preço\n/search TEXTO - buscar mercados de previsão\n/referral - seu link de indicação e ganhos\n/tree - sua árvore de indicações\n/leaderboard - melhores indicadores\n/language CÓDIGO - mudar idioma",
		KeyUnknownCommand:        "Comando desconhecido. Use /help.",
		KeyError:                 "Algo deu errado. Tente novamente mais tarde.",
		KeyPricesHeader:          "Preços ao vivo:",
		KeyPricesEmpty:           "Os preços ainda não estão disponíveis. Tente em instantes.",
		KeyPriceUnavailable:      "%s: indisponível",
		KeyPriceUsage:            "Uso: /price SÍMBOLO",
		KeyUnknownSymbol:         "Símbolo desconhecido %s. Acompanhados: %s",
		KeySearchUsage:           "Uso: /search TEXTO",
		KeySearchHeader:          "Mercados para \"%s\":",
		KeySearchNone:            "Nenhum mercado encontrado para \"%s\".",
		KeySearchFailed:          "A busca de mercados está indisponível agora.",
		KeyReferralLink:          "Seu link de indicação:\n%s",
		KeyReferralStats:         "Indicações diretas: %d\nIndicações totais: %d\nPago: %s\nPendente: %s",
		KeyReferralApplied:       "Você entrou pelo link de indicação de %s.",
		KeyRejectInvalidCode:     "Esse código de indicação não é válido.",
		KeyRejectAlreadyReferred: "Você já tem um indicador.",
		KeyRejectSelfReferral:    "Você não pode usar seu próprio código.",
		KeyRejectCycle:           "Essa indicação criaria um ciclo.",
		KeyTreeHeader:            "Sua árvore de indicações (%d usuários):",
		KeyTreeEmpty:             "Você ainda não indicou ninguém.",
		KeyLeaderboardHeader:     "Melhores indicadores:",
		KeyLeaderboardEmpty:      "Ainda não há indicadores.",
		KeyLanguageSet:           "Idioma alterado para %s.",
		KeyLanguageUsage:         "Uso: /language CÓDIGO\nDisponíveis: %s",
	},
	"ru": {
		KeyWelcome:               "Добро пожаловать в PolyFocus, %s!\nКоманда /help покажет, что я умею.",
		KeyHelp:                  "Команды:\n/prices - курсы криптовалют\n/price СИМВОЛ - один курс\n/search ТЕКСТ - поиск рынков прогнозов\n/referral - ваша реферальная ссылка и доход\n/tree - ваше дерево рефералов\n/leaderboard - лучшие рефереры\n/language КОД - сменить язык",
		KeyUnknownCommand:        "Неизвестная команда. Используйте /help.",
		KeyError:                 "Что-то пошло не так. Попробуйте позже.",
		KeyPricesHeader:          "Текущие курсы:",
		KeyPricesEmpty:           "Курсы пока недоступны. Попробуйте чуть позже.",
		KeyPriceUnavailable:      "%s: недоступно",
		KeyPriceUsage:            "Использование: /price СИМВОЛ",
		KeyUnknownSymbol:         "Неизвестный символ %s. Отслеживаются: %s",
		KeySearchUsage:           "Использование: /search ТЕКСТ",
		KeySearchHeader:          "Рынки по запросу «%s»:",
		KeySearchNone:            "По запросу «%s» рынков не найдено.",
		KeySearchFailed:          "Поиск рынков сейчас недоступен.",
		KeyReferralLink:          "Ваша реферальная ссылка:\n%s",
		KeyReferralStats:         "Прямые рефералы: %d\nВсего рефералов: %d\nВыплачено: %s\nОжидает: %s",
		KeyReferralApplied:       "Вы присоединились по ссылке %s.",
		KeyRejectInvalidCode:     "Этот реферальный код недействителен.",
		KeyRejectAlreadyReferred: "У вас уже есть реферер.",
		KeyRejectSelfReferral:    "Нельзя использовать собственный код.",
		KeyRejectCycle:           "Такая привязка создала бы цикл.",
		KeyTreeHeader:            "Ваше дерево рефералов (%d польз.):",
		KeyTreeEmpty:             "Вы ещё никого не пригласили.",
		KeyLeaderboardHeader:     "Лучшие рефереры:",
		KeyLeaderboardEmpty:      "Рефереров пока нет.",
		KeyLanguageSet:           "Язык изменён на %s.",
		KeyLanguageUsage:         "Использование: /language КОД\nДоступно: %s",
	},
	"zh": {
		KeyWelcome:               "欢迎使用 PolyFocus，%s！\n使用 /help 查看我能做什么。",
		KeyHelp:                  "命令：\n/prices - 实时加密货币价格\n/price 代码 - 单个价格\n/search 文本 - 搜索预测市场\n/referral - 你的推荐链接和收益\n/tree - 你的推荐树\n/leaderboard - 推荐排行榜\n/language 代码 - 切换语言",
		KeyUnknownCommand:        "未知命令。请使用 /help。",
		KeyError:                 "出错了，请稍后再试。",
		KeyPricesHeader:          "实时价格：",
		KeyPricesEmpty:           "价格暂不可用，请稍后再试。",
		KeyPriceUnavailable:      "%s：不可用",
		KeyPriceUsage:            "用法：/price 代码",
		KeyUnknownSymbol:         "未知代码 %s。已跟踪：%s",
		KeySearchUsage:           "用法：/search 文本",
		KeySearchHeader:          "与“%s”匹配的市场：",
		KeySearchNone:            "未找到与“%s”相关的市场。",
		KeySearchFailed:          "市场搜索暂时不可用。",
		KeyReferralLink:          "你的推荐链接：\n%s",
		KeyReferralStats:         "直接推荐：%d\n推荐总数：%d\n已支付：%s\n待支付：%s",
		KeyReferralApplied:       "你通过 %s 的推荐链接加入。",
		KeyRejectInvalidCode:     "该推荐码无效。",
		KeyRejectAlreadyReferred: "你已经有推荐人了。",
		KeyRejectSelfReferral:    "不能使用自己的推荐码。",
		KeyRejectCycle:           "该推荐会形成循环。",
		KeyTreeHeader:            "你的推荐树（%d 位用户）：",
		KeyTreeEmpty:             "你还没有推荐任何人。",
		KeyLeaderboardHeader:     "推荐排行榜：",
		KeyLeaderboardEmpty:      "暂无推荐人。",
		KeyLanguageSet:           "语言已设置为 %s。",
		KeyLanguageUsage:         "用法：/language 代码\n可用：%s",
	},
	"ja": {
		KeyWelcome:               "PolyFocus へようこそ、%s さん！\n/help でできることを確認できます。",
		KeyHelp:                  "コマンド:\n/prices - 暗号資産のリアルタイム価格\n/price シンボル - 個別の価格\n/search テキスト - 予測市場を検索\n/referral - 紹介リンクと報酬\n/tree - 紹介ツリー\n/leaderboard - 紹介ランキング\n/language コード - 言語を変更",
		KeyUnknownCommand:        "不明なコマンドです。/help を使ってください。",
		KeyError:                 "問題が発生しました。しばらくしてから再試行してください。",
		KeyPricesHeader:          "リアルタイム価格:",
		KeyPricesEmpty:           "価格はまだ利用できません。少し待ってから再試行してください。",
		KeyPriceUnavailable:      "%s: 利用不可",
		KeyPriceUsage:            "使い方: /price シンボル",
		KeyUnknownSymbol:         "不明なシンボル %s。追跡中: %s",
		KeySearchUsage:           "使い方: /search テキスト",
		KeySearchHeader:          "「%s」に一致する市場:",
		KeySearchNone:            "「%s」に一致する市場は見つかりませんでした。",
		KeySearchFailed:          "現在、市場検索は利用できません。",
		KeyReferralLink:          "あなたの紹介リンク:\n%s",
		KeyReferralStats:         "直接紹介: %d\n紹介合計: %d\n支払済み: %s\n保留中: %s",
		KeyReferralApplied:       "%s さんの紹介リンクから参加しました。",
		KeyRejectInvalidCode:     "その紹介コードは無効です。",
		KeyRejectAlreadyReferred: "すでに紹介者がいます。",
		KeyRejectSelfReferral:    "自分の紹介コードは使えません。",
		KeyRejectCycle:           "その紹介はループになります。",
		KeyTreeHeader:            "あなたの紹介ツリー（%d 人）:",
		KeyTreeEmpty:             "まだ誰も紹介していません。",
		KeyLeaderboardHeader:     "紹介ランキング:",
		KeyLeaderboardEmpty:      "まだ紹介者はいません。",
		KeyLanguageSet:           "言語を %s に設定しました。",
		KeyLanguageUsage:         "使い方: /language コード\n利用可能: %s",
	},
	"ko": {
		KeyWelcome:               "PolyFocus에 오신 것을 환영합니다, %s님!\n/help로 사용 가능한 기능을 확인하세요.",
		KeyHelp:                  "명령어:\n/prices - 실시간 암호화폐 시세\n/price 심볼 - 개별 시세\n/search 텍스트 - 예측 시장 검색\n/referral - 추천 링크와 수익\n/tree - 추천 트리\n/leaderboard - 추천 순위\n/language 코드 - 언어 변경",
		KeyUnknownCommand:        "알 수 없는 명령어입니다. /help를 사용하세요.",
		KeyError:                 "문제가 발생했습니다. 잠시 후 다시 시도하세요.",
		KeyPricesHeader:          "실시간 시세:",
		KeyPricesEmpty:           "아직 시세를 사용할 수 없습니다. 잠시 후 다시 시도하세요.",
		KeyPriceUnavailable:      "%s: 사용 불가",
		KeyPriceUsage:            "사용법: /price 심볼",
		KeyUnknownSymbol:         "알 수 없는 심볼 %s. 추적 중: %s",
		KeySearchUsage:           "사용법: /search 텍스트",
		KeySearchHeader:          "\"%s\"와 일치하는 시장:",
		KeySearchNone:            "\"%s\"에 대한 시장을 찾을 수 없습니다.",
		KeySearchFailed:          "현재 시장 검색을 사용할 수 없습니다.",
		KeyReferralLink:          "내 추천 링크:\n%s",
		KeyReferralStats:         "직접 추천: %d\n전체 추천: %d\n지급됨: %s\n대기 중: %s",
		KeyReferralApplied:       "%s님의 추천 링크로 가입했습니다.",
		KeyRejectInvalidCode:     "유효하지 않은 추천 코드입니다.",
		KeyRejectAlreadyReferred: "이미 추천인이 있습니다.",
		KeyRejectSelfReferral:    "자신의 추천 코드는 사용할 수 없습니다.",
		KeyRejectCycle:           "이 추천은 순환을 만듭니다.",
		KeyTreeHeader:            "내 추천 트리 (%d명):",
		KeyTreeEmpty:             "아직 추천한 사람이 없습니다.",
		KeyLeaderboardHeader:     "추천 순위:",
		KeyLeaderboardEmpty:      "아직 추천인이 없습니다.",
		KeyLanguageSet:           "언어가 %s(으)로 설정되었습니다.",
		KeyLanguageUsage:         "사용법: /language 코드\n사용 가능: %s",
	},
}
