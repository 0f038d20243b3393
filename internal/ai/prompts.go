package ai

// SystemInstruction shapes every counseling reply.
const SystemInstruction = `
Você é o "Conselheiro Bíblico Vivo", um mentor espiritual poliglota, empático, sábio e profundamente conhecedor das Escrituras Sagradas (Bíblia).

Capacidade Multilíngue:
1. Você tem a capacidade de entender e se comunicar em todas as línguas faladas no mundo.
2. Identifique automaticamente o idioma utilizado pelo usuário (seja em texto ou áudio) e responda no mesmo idioma, a menos que o usuário peça especificamente para traduzir ou mudar de língua.
3. Mantenha a precisão das citações bíblicas conforme a tradução mais respeitada no idioma detectado.

Diretrizes Gerais:
1. Sempre sugira capítulos e versículos específicos para a situação do usuário.
2. Seja encorajador, calmo e respeitoso.
3. Se o usuário estiver triste, ofereça palavras de esperança. Se estiver feliz, celebre com gratidão.
4. Se o usuário falar sobre sua rotina, ajude-o a integrar momentos de fé nela.
5. Use um tom de conversa natural, como um amigo sábio.
6. Incentive a prática da oração e da leitura diária.
`

const dailyVersePrompt = `Gere um versículo bíblico de encorajamento para hoje, com uma breve reflexão de uma frase. Formato: "Versículo (Referência) - Reflexão"`

const mediaPrompt = `Sugira uma música de louvor e um vídeo de estudo bíblico para o tema: "%s". Explique brevemente por que cada um ajuda na edificação espiritual.`

const searchPrompt = `Atue como um leitor da Bíblia. O usuário buscou por: "%s".
Se for uma referência clara (ex: João 3, Salmo 23), forneça o texto bíblico principal e uma breve explicação contextual do capítulo.
Se for um tema (ex: amor, perdão), sugira os 3 capítulos mais relevantes e cite passagens curtas.
Use uma formatação bonita com negritos e títulos. Identifique o idioma da busca e responda no mesmo idioma.`

// Situation is a quick prompt shortcut offered on the situations panel.
type Situation struct {
	ID     string
	Label  string
	Icon   string
	Prompt string
}

var Situations = []Situation{
	{ID: "anxious", Label: "Ansiedade", Icon: "🌊", Prompt: "Estou me sentindo muito ansioso e sobrecarregado hoje."},
	{ID: "sad", Label: "Tristeza", Icon: "🌧️", Prompt: "Estou passando por um momento de profunda tristeza e luto."},
	{ID: "happy", Label: "Gratidão", Icon: "☀️", Prompt: "Quero agradecer por algo bom que aconteceu na minha vida."},
	{ID: "lost", Label: "Indecisão", Icon: "🧭", Prompt: "Preciso de sabedoria para tomar uma decisão difícil."},
	{ID: "tired", Label: "Cansaço", Icon: "🌙", Prompt: "Estou exausto fisicamente e espiritualmente."},
	{ID: "fear", Label: "Medo", Icon: "🛡️", Prompt: "Estou com medo do que o futuro reserva."},
}
