package scaffold

func SetRemoveAll(p *Pipeline, removeAll func(string) error) {
	p.removeAll = removeAll
}
