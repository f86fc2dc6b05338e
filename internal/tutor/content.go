package tutor

import (
	"fmt"
	"strings"
)

// SuggestedQuestions returns quick prompts for topicName at mode.
func SuggestedQuestions(topicName string, mode Mode) []string {
	if topicName == "" {
		topicName = "este tópico"
	}
	var qs []string
	switch mode {
	case ModeBeginner:
		qs = []string{
			fmt.Sprintf("O que é %s?", topicName),
			fmt.Sprintf("Quais os conceitos básicos de %s?", topicName),
			fmt.Sprintf("Poderia dar um exemplo simples de %s?", topicName),
		}
	case ModeIntermediate:
		qs = []string{
			fmt.Sprintf("Como posso aplicar %s em um projeto real?", topicName),
			fmt.Sprintf("Quais são as melhores práticas para %s?", topicName),
			fmt.Sprintf("Existe algum problema comum ao usar %s e como resolvê-lo?", topicName),
		}
	case ModeAdvanced:
		qs = []string{
			fmt.Sprintf("Explique as nuances avançadas de %s.", topicName),
			fmt.Sprintf("Quais são os casos de uso complexos para %s?", topicName),
			fmt.Sprintf("Compare %s com tecnologias alternativas.", topicName),
		}
	}
	return append(qs,
		"Poderia me dar um exercício sobre o tema atual?",
		"Quais os próximos passos na trilha de aprendizado?",
	)
}

// IsExerciseRequest reports whether text asks for an exercise.
func IsExerciseRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range []string{"exercício", "exercicio", "praticar"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var cannedReplies = map[string]map[Mode][]string{
	"html_intro": {
		ModeBeginner: {
			"HTML (HyperText Markup Language) é a linguagem padrão para criar páginas web. Ela descreve a estrutura de uma página usando elementos (tags) que o navegador interpreta.",
			"As tags HTML são como blocos de construção para páginas web. Cada tag tem uma função específica, como <h1> para títulos principais, <p> para parágrafos e <img> para imagens.",
			"Um documento HTML básico tem uma estrutura como: <!DOCTYPE html><html><head><title>Título da página</title></head><body><h1>Olá mundo!</h1><p>Este é um parágrafo.</p></body></html>",
		},
		ModeIntermediate: {
			"Para projetos reais, é importante estruturar bem o HTML com tags semânticas. Isso ajuda na acessibilidade e no SEO da página.",
			"Algumas boas práticas de HTML incluem: usar tags semânticas, manter a indentação correta, usar atributos alt em imagens e validar seu código regularmente.",
			"Um problema comum é a compatibilidade entre navegadores. Você pode usar ferramentas como caniuse.com para verificar quais recursos são suportados em diferentes navegadores.",
		},
		ModeAdvanced: {
			"HTML5 trouxe muitos recursos avançados, como as APIs de Geolocalização, Canvas para desenhos, e Web Storage para armazenamento local. Essas APIs permitem criar aplicações web mais complexas e interativas.",
			"Para SEO avançado, considere usar microdata ou JSON-LD para implementar Schema.org, melhorando como os motores de busca interpretam seu conteúdo.",
			"Comparando com outras tecnologias, HTML é apenas para estrutura. Para estilos, você precisa de CSS, e para interatividade, JavaScript. Frameworks como React e Vue usam componentes que combinam esses três.",
		},
	},
	"css_basics": {
		ModeBeginner: {
			"CSS (Cascading Style Sheets) é usado para estilizar elementos HTML. Com CSS, você controla o layout, cores, fontes e aparência geral da página.",
			"Os seletores CSS são padrões que selecionam elementos HTML para aplicar estilos. Você pode selecionar por tag, classe (.classe), ID (#id) ou atributos.",
			"Um exemplo simples de CSS: 'body { background-color: #f0f0f0; } h1 { color: blue; font-size: 24px; } p { margin: 10px; }'.",
		},
	},
}

// CannedReply picks an offline answer for topic at mode. intn chooses among
// the available answers; topics without answers get a generic offer to help.
func CannedReply(topic, topicName string, mode Mode, intn func(n int) int) string {
	if replies := cannedReplies[topic][mode]; len(replies) > 0 {
		return replies[intn(len(replies))]
	}
	if topicName == "" {
		topicName = topic
	}
	return fmt.Sprintf("Estou aqui para ajudar com qualquer dúvida sobre %s. O que gostaria de saber?", topicName)
}

var exercises = map[string]string{
	"html_intro":    "Crie uma página HTML simples com um título (h1), um subtítulo (h2), um parágrafo e uma lista não ordenada com 3 itens.",
	"html_semantic": "Converta o seguinte HTML para usar tags semânticas: <div class='header'>...</div> <div class='nav'>...</div> <div class='main'>...</div> <div class='footer'>...</div>",
	"css_basics":    "Crie um CSS que faça todos os parágrafos terem texto verde, fonte de 16px e um padding de 10px.",
	"css_layout":    "Usando Flexbox, crie um layout com 3 colunas de mesma largura em telas grandes, e que empilhe em telas pequenas.",
	"js_intro":      "Escreva uma função JavaScript que receba um número e retorne true se for par e false se for ímpar.",
	"js_dom":        "Escreva código JavaScript que adicione uma classe 'highlight' a todos os elementos <li> quando clicados.",
}

const defaultExercise = "Vamos praticar! Crie um pequeno exemplo usando o que aprendemos neste tópico."

// Exercise returns the practice exercise for topic.
func Exercise(topic string) string {
	if e, ok := exercises[topic]; ok {
		return e
	}
	return defaultExercise
}

// Replies posted after the learner evaluates an exercise.
const (
	SolvedReply   = "Parabéns! Você está no caminho certo. Vamos continuar aprendendo."
	UnsolvedReply = "Não tem problema! Aprender envolve cometer erros. Vamos revisar o conceito."
)

func welcomeMessage(topicName string) string {
	return fmt.Sprintf("Olá! Vamos estudar %s. Pergunte o que quiser ou peça um exercício para praticar.", topicName)
}

func modeChangeMessage(m Mode) string {
	return fmt.Sprintf("Mudei para o modo %s.", m)
}
