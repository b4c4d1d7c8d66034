package neurostring

const Version = "0.1.0"

func Banner() string {
	return "" +
		"                                                                \n" +
		"    _   __                      _____ __       _                \n" +
		"   / | / /__  __  ___________  / ___// /______(_)___  ____ _    \n" +
		"  /  |/ / _ \\/ / / / ___/ __ \\ \\__ \\/ __/ ___/ / __ \\/ __ `/    \n" +
		" / /|  /  __/ /_/ / /  / /_/ /___/ / /_/ /  / / / / / /_/ /     \n" +
		"/_/ |_/\\___/\\__,_/_/   \\____//____/\\__/_/  /_/_/ /_/\\__, /      \n" +
		"                                                   /____/       \n" +
		"                                                                \n" +
		"        A DECENTRALISED NETWORK THAT THINKS  (v" + Version + ")\n\n"
}

// About is printed by the console info command.
func About() string {
	return "" +
		"NeuroString combines:\n" +
		"  neurons   adaptive nodes that strengthen the paths they use\n" +
		"  quanta    probabilistic voting instead of a fixed protocol\n" +
		"  strings   an 11 dimensional content addressed memory\n"
}
