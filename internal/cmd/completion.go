package cmd

import (
	"fmt"
	"io"
	"os"
)

type CompletionCmd struct {
	Shell string `arg:"" help:"Shell type: bash, zsh, or fish"`
}

func (c *CompletionCmd) Run() error {
	return writeCompletion(os.Stdout, c.Shell)
}

func writeCompletion(w io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

const bashCompletion = `# bash completion for tesseractise

_tesseractise_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="run inspect version completion"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    # Options for run command
    if [[ ${COMP_WORDS[1]} == "run" ]]; then
        case "${prev}" in
            -o|--output)
                COMPREPLY=( $(compgen -f -X '!*.@(3mf|stl|obj|gltf|glb)' -- ${cur}) )
                return 0
                ;;
            --projection)
                COMPREPLY=( $(compgen -W "fish-eye perspective orthographic" -- ${cur}) )
                return 0
                ;;
            --layout)
                COMPREPLY=( $(compgen -W "none grid shelf" -- ${cur}) )
                return 0
                ;;
            -r|--rotate)
                COMPREPLY=( $(compgen -W "X-Y X-Z X-W Y-Z Y-W Z-W default" -- ${cur}) )
                return 0
                ;;
            --cells|--w-scale|--cam-distance|--workers|--spacing)
                return 0
                ;;
            *)
                if [[ ${cur} == -* ]]; then
                    opts="-o --output --cells -r --rotate --w-scale --cam-distance --projection --keep-sources --workers --layout --spacing --open --progress -h --help"
                    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
                else
                    COMPREPLY=( $(compgen -f -X '!*.@(scad|3mf|stl|obj|gltf|glb|yaml|yml)' -- ${cur}) )
                fi
                return 0
                ;;
        esac
    fi

    # Options for inspect command
    if [[ ${COMP_WORDS[1]} == "inspect" ]]; then
        if [[ ${cur} == -* ]]; then
            opts="-h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -X '!*.@(3mf|stl|obj|gltf|glb|yaml|yml)' -- ${cur}) )
        fi
        return 0
    fi

    # Options for completion command
    if [[ ${COMP_WORDS[1]} == "completion" ]]; then
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            opts="bash zsh fish"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        fi
        return 0
    fi
}

complete -F _tesseractise_completions tesseractise
`

const zshCompletion = `#compdef tesseractise

_tesseractise() {
    local -a commands
    commands=(
        'run:Project meshes onto the cells of a tesseract'
        'inspect:Inspect a mesh or job file'
        'version:Show version information'
        'completion:Generate shell completion script'
    )

    local -a run_opts
    run_opts=(
        '(-o --output)'{-o,--output}'[Output file path]:output file:_files -g "*.{3mf,stl,obj,gltf,glb}"'
        '--cells[Cells to generate]:cells:'
        '*'{-r,--rotate}'[Add a 4D rotation PLANE\:DEGREES]:rotation:(X-Y X-Z X-W Y-Z Y-W Z-W default)'
        '--w-scale[W exaggeration]:scale:'
        '--cam-distance[4D camera distance]:distance:'
        '--projection[Projection]:projection:(fish-eye perspective orthographic)'
        '--keep-sources[Also write the source objects]'
        '--workers[Concurrent pairs]:workers:'
        '--layout[Build plate layout]:layout:(none grid shelf)'
        '--spacing[Gap between arranged objects]:spacing:'
        '--open[Open the result file in the default application]'
        '--progress[Progress output]:progress:(auto plain)'
        '(-h --help)'{-h,--help}'[Show help]'
        '*:input files:_files -g "*.{scad,3mf,stl,obj,gltf,glb,yaml,yml}"'
    )

    local -a inspect_opts
    inspect_opts=(
        '(-h --help)'{-h,--help}'[Show help]'
        '*:file:_files -g "*.{3mf,stl,obj,gltf,glb,yaml,yml}"'
    )

    local -a completion_shells
    completion_shells=(
        'bash:Generate bash completion'
        'zsh:Generate zsh completion'
        'fish:Generate fish completion'
    )

    _arguments -C \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                run)
                    _arguments $run_opts
                    ;;
                inspect)
                    _arguments $inspect_opts
                    ;;
                completion)
                    _describe 'shell' completion_shells
                    ;;
                version)
                    _arguments '(-h --help)'{-h,--help}'[Show help]'
                    ;;
            esac
            ;;
    esac
}

_tesseractise
`

const fishCompletion = `# fish completion for tesseractise

# Main commands
complete -c tesseractise -f -n "__fish_use_subcommand" -a "run" -d "Project meshes onto the cells of a tesseract"
complete -c tesseractise -f -n "__fish_use_subcommand" -a "inspect" -d "Inspect a mesh or job file"
complete -c tesseractise -f -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c tesseractise -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# run command options
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -s o -l output -d "Output file path" -r
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l cells -d "Cells to generate" -r
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -s r -l rotate -d "Add a 4D rotation" -r -a "X-Y X-Z X-W Y-Z Y-W Z-W default"
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l w-scale -d "W exaggeration" -r
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l cam-distance -d "4D camera distance" -r
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l projection -d "Projection" -r -a "fish-eye perspective orthographic"
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l keep-sources -d "Also write the source objects"
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l workers -d "Concurrent pairs" -r
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l layout -d "Build plate layout" -r -a "none grid shelf"
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l spacing -d "Gap between arranged objects" -r
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l open -d "Open the result file in the default application"
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -l progress -d "Progress output" -r -a "auto plain"
complete -c tesseractise -f -n "__fish_seen_subcommand_from run" -s h -l help -d "Show help"
complete -c tesseractise -n "__fish_seen_subcommand_from run" -a "(__fish_complete_suffix .stl)" -d "STL file"
complete -c tesseractise -n "__fish_seen_subcommand_from run" -a "(__fish_complete_suffix .3mf)" -d "3MF file"
complete -c tesseractise -n "__fish_seen_subcommand_from run" -a "(__fish_complete_suffix .obj)" -d "OBJ file"
complete -c tesseractise -n "__fish_seen_subcommand_from run" -a "(__fish_complete_suffix .glb)" -d "glTF binary"
complete -c tesseractise -n "__fish_seen_subcommand_from run" -a "(__fish_complete_suffix .scad)" -d "SCAD file"
complete -c tesseractise -n "__fish_seen_subcommand_from run" -a "(__fish_complete_suffix .yaml)" -d "YAML job"

# inspect command options
complete -c tesseractise -f -n "__fish_seen_subcommand_from inspect" -s h -l help -d "Show help"
complete -c tesseractise -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .3mf)" -d "3MF file"
complete -c tesseractise -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .stl)" -d "STL file"
complete -c tesseractise -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .yaml)" -d "YAML job"

# completion command options
complete -c tesseractise -f -n "__fish_seen_subcommand_from completion" -a "bash" -d "Generate bash completion"
complete -c tesseractise -f -n "__fish_seen_subcommand_from completion" -a "zsh" -d "Generate zsh completion"
complete -c tesseractise -f -n "__fish_seen_subcommand_from completion" -a "fish" -d "Generate fish completion"

# version command options
complete -c tesseractise -f -n "__fish_seen_subcommand_from version" -s h -l help -d "Show help"
`

func (c *CompletionCmd) Help() string {
	return `
Generate shell completion scripts for tesseractise.

Examples:
  # Bash
  tesseractise completion bash > /etc/bash_completion.d/tesseractise
  # or
  tesseractise completion bash > ~/.local/share/bash-completion/completions/tesseractise

  # Zsh
  tesseractise completion zsh > ~/.zsh/completion/_tesseractise
  # or add to .zshrc:
  autoload -U compinit && compinit

  # Fish
  tesseractise completion fish > ~/.config/fish/completions/tesseractise.fish
`
}
