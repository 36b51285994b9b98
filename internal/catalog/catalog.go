// Package catalog holds the static table of secret identities the game
// draws from: well-known soccer players grouped by position.
package catalog

import "math/rand"

var byPosition = map[string][]string{
	"forwards": {
		"Lionel Messi", "Kylian Mbappé", "Erling Haaland", "Vinícius Júnior",
		"Mohamed Salah", "Harry Kane", "Jude Bellingham", "Lautaro Martínez",
		"Antoine Griezmann", "Robert Lewandowski", "Son Heung-min", "Bukayo Saka",
		"Jamal Musiala", "Florian Wirtz", "Rafael Leão", "Khvicha Kvaratskhelia",
		"Rodrygo", "Ousmane Dembélé", "Leroy Sané", "Kingsley Coman",
		"Marcus Rashford", "Jack Grealish", "Christopher Nkunku", "Kai Havertz",
		"João Félix", "Darwin Núñez", "Victor Osimhen", "Alexander Isak",
		"Randal Kolo Muani", "Dusan Vlahović", "Álvaro Morata", "Federico Chiesa",
		"Julián Álvarez", "Paulo Dybala", "Ángel Di María", "Kenan Yıldız",
		"Dayro Moreno",
	},
	"midfielders": {
		"Kevin De Bruyne", "Bernardo Silva", "Martin Ødegaard", "Bruno Fernandes",
		"Federico Valverde", "Pedri", "Gavi", "Frenkie de Jong",
		"Ilkay Gündoğan", "Toni Kroos", "Luka Modrić", "Declan Rice",
		"Casemiro", "Adrien Rabiot", "Nicolo Barella", "Hakan Çalhanoğlu",
		"Sandro Tonali", "Sergej Milinković-Savić", "James Maddison", "Mason Mount",
		"Dominic Szoboszlai", "Dani Olmo", "Youssouf Fofana", "Aurélien Tchouaméni",
		"Eduardo Camavinga", "Marco Verratti", "Martin Zubimendi", "Mikel Merino",
		"Alexis Mac Allister", "Enzo Fernández", "Moisés Caicedo", "João Palhinha",
		"Teun Koopmeiners", "Scott McTominay", "Weston McKennie", "Christian Pulisic",
		"Giovanni Reyna", "Luis Díaz", "Rodrigo De Paul", "Leandro Paredes",
	},
	"defenders": {
		"Virgil van Dijk", "Rúben Dias", "Marquinhos", "Éder Militão",
		"David Alaba", "William Saliba", "Josko Gvardiol", "Antonio Rüdiger",
		"Matthijs de Ligt", "Milan Škriniar", "Kim Min-jae", "Dayot Upamecano",
		"Ronald Araújo", "Jules Koundé", "Raphaël Varane", "Pau Cubarsí",
		"Alejandro Balde", "Giovanni Di Lorenzo", "Khéphren Thuram", "Joshua Kimmich",
		"Leon Goretzka", "Benjamin Pavard", "Raphael Guerreiro",
	},
	"fullbacks": {
		"João Cancelo", "Trent Alexander-Arnold", "Andrew Robertson", "Achraf Hakimi",
		"Theo Hernández", "Alphonso Davies", "Reece James", "Dani Carvajal",
	},
	"goalkeepers": {
		"Emiliano \"Dibu\" Martínez", "Thibaut Courtois", "Alisson Becker", "Ederson",
		"Mike Maignan", "Marc-André ter Stegen", "Jan Oblak", "André Onana",
		"Diogo Costa", "Yassine Bounou",
	},
	"rising": {
		"Nico Williams", "Khéphren Thuram", "Alejandro Garnacho", "Cole Palmer",
		"Xavi Simons", "Rodrigo Bentancur", "Nicolò Fagioli", "João Neves",
		"Lamine Yamal",
	},
}

var flattened []string

func init() {
	for _, names := range byPosition {
		flattened = append(flattened, names...)
	}
}

// All returns every catalog entry across positions.
func All() []string {
	out := make([]string, len(flattened))
	copy(out, flattened)
	return out
}

// Position returns the entries for one position group, or nil.
func Position(name string) []string {
	return byPosition[name]
}

// Pick draws one entry uniformly at random.
func Pick() string {
	return flattened[rand.Intn(len(flattened))]
}
